package relay

import (
	"html/template"
	"net/http"

	"askychat/internal/chat"
)

// pageHandler serves a minimal browser client. The display name comes from the
// username query parameter, falling back to the anonymous placeholder. The
// page renders only what comes back over the websocket; there is no local echo.
type pageHandler struct{}

func (pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	webTemplate.Execute(w, templateArgs{
		Identity: chat.Identity(r.URL.Query().Get("username")),
		Path:     ChatPath,
	})
}

type templateArgs struct {
	Identity, Path string
}

var webTemplate = template.Must(template.New("webTemplate").Parse(`
<html>
<head>
<title>chat with {{.Identity}}</title>
<script type="text/javascript">
    window.addEventListener("load", function() {

    var conn;
    var msg = document.getElementById("msg");
    var log = document.getElementById("log");

    function appendLog(text) {
        var d = document.createElement("div");
        d.textContent = text;
        var doScroll = log.scrollTop == log.scrollHeight - log.clientHeight;
        log.appendChild(d);
        if (doScroll) {
            log.scrollTop = log.scrollHeight - log.clientHeight;
        }
    }

    document.getElementById("form").addEventListener("submit", function(ev) {
        ev.preventDefault();
        if (!conn) {
            return;
        }
        if (!msg.value.trim()) {
            return;
        }
        conn.send({{.Identity}} + ": " + msg.value);
        msg.value = "";
    });

    if (window["WebSocket"]) {
        var scheme = location.protocol == "https:" ? "wss://" : "ws://";
        conn = new WebSocket(scheme + location.host + {{.Path}});
        conn.onclose = function(evt) {
            appendLog("Connection closed.");
        }
        conn.onmessage = function(evt) {
            appendLog(evt.data);
        }
        msg.focus();
    } else {
        appendLog("Your browser does not support WebSockets.");
    }
    });
</script>
<style type="text/css">
html {
    overflow: hidden;
}

body {
    overflow: hidden;
    padding: 0.5em;
    margin: 0;
    width: 100%;
    height: 100%;
    background: gray;
}

#log {
    background: white;
    margin: 0;
    padding: 0.5em 0.5em 0.5em 0.5em;
    position: absolute;
    top: 2.0em;
    left: 0.5em;
    right: 0.5em;
    bottom: 3em;
    overflow: auto;
}

#form {
    padding: 0 0.5em 0 0.5em;
    margin: 0;
    position: absolute;
    bottom: 0.5em;
    left: 0px;
    width: 100%;
    overflow: hidden;
}

</style>
</head>
<body>
<h3>Chatting as {{.Identity}}</h3>
<div id="log"></div>
<form id="form">
    <input type="submit" value="Send" />
    <input type="text" id="msg" size="64"/>
</form>
</body>
</html>
`))
