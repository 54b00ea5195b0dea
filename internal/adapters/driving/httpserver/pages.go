package httpserver

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

type handlerPageData struct {
	CompleteURL string
}

type pickerPageData struct {
	ScriptURL    string
	AccessToken  string
	DeveloperKey string
	AppID        string
	ViewID       string
	MultiSelect  bool
	Title        string
	ResultURL    string
}

func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("render %s: %v", tmpl.Name(), err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handlerPage reads the fragment, strips it from the address bar and posts it
// for validation. The token never leaves the browser except to this server.
var handlerPage = template.Must(template.New("handler").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Signing in with Google</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 50px;">
<h1 id="title">Signing in with Google</h1>
<p id="message">Processing Google Sign-In...</p>
<script>
(function () {
  var fragment = window.location.hash.substring(1);
  history.replaceState(null, "", window.location.pathname);
  var title = document.getElementById("title");
  var message = document.getElementById("message");
  message.textContent = "Verifying credentials...";
  fetch({{.CompleteURL}}, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({fragment: fragment})
  }).then(function (res) {
    return res.json().then(function (body) { return {ok: res.ok, body: body}; });
  }).then(function (r) {
    if (!r.ok) {
      title.textContent = "Authentication Failed";
      message.textContent = r.body.message || "Authentication failed";
      return;
    }
    title.textContent = "Success!";
    message.textContent = r.body.message;
    setTimeout(function () { window.location.assign(r.body.redirectUrl); }, r.body.redirectDelayMs);
  }).catch(function () {
    title.textContent = "Authentication Failed";
    message.textContent = "Authentication failed";
  });
})();
</script>
</body>
</html>`))

// pickerPage loads the picker library and posts the widget's response back.
var pickerPage = template.Must(template.New("picker").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 50px;">
<p id="message">Loading Google Picker...</p>
<script>
function deliver(payload) {
  return fetch({{.ResultURL}}, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(payload)
  });
}

function pickerCallback(data) {
  var message = document.getElementById("message");
  if (data.action === google.picker.Action.PICKED) {
    var docs = data.docs.map(function (doc) {
      return {
        id: doc.id,
        name: doc.name,
        mimeType: doc.mimeType,
        url: doc.url,
        iconUrl: doc.iconUrl,
        sizeBytes: doc.sizeBytes,
        lastEditedUtc: doc.lastEditedUtc
      };
    });
    deliver({action: "picked", docs: docs}).then(function () {
      message.textContent = "Selection sent. You can close this window.";
    });
  } else if (data.action === google.picker.Action.CANCEL) {
    deliver({action: "cancel", docs: []}).then(function () {
      message.textContent = "Cancelled. You can close this window.";
    });
  }
}

function openPicker() {
  var message = document.getElementById("message");
  if (!window.google || !google.picker) {
    message.textContent = "Google Picker library not loaded properly";
    return;
  }
  var viewType = google.picker.ViewId[{{.ViewID}}] || google.picker.ViewId.DOCS;
  var view = new google.picker.DocsView(viewType)
    .setIncludeFolders(true)
    .setSelectFolderEnabled(false);
  var builder = new google.picker.PickerBuilder()
    .setTitle({{.Title}})
    .setOAuthToken({{.AccessToken}})
    .setDeveloperKey({{.DeveloperKey}})
    .addView(view)
    .addView(new google.picker.DocsUploadView())
    .setOrigin(window.location.origin)
    .setCallback(pickerCallback);
  {{if .AppID}}builder.setAppId({{.AppID}});{{end}}
  {{if .MultiSelect}}builder.enableFeature(google.picker.Feature.MULTISELECT_ENABLED);{{end}}
  try {
    builder.build().setVisible(true);
    message.textContent = "";
  } catch (err) {
    message.textContent = "Failed to open Google Picker: " + err;
  }
}

function onApiLoad() {
  gapi.load("picker", openPicker);
}
</script>
<script async defer src="{{.ScriptURL}}" onload="onApiLoad()"></script>
</body>
</html>`))
