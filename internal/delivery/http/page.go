package http

import (
	"html/template"
	"io"

	"github.com/weatherapp/backend/internal/domain"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Weather</title>
<style>
body { font-family: Poppins, sans-serif; margin: 0; display: flex; justify-content: center; }
main { width: 100%; max-width: 960px; padding: 1rem; }
form { display: flex; justify-content: center; gap: .5rem; }
.report { display: flex; flex-wrap: wrap; gap: 1rem; margin-top: 1rem; }
.condition { flex: 1; text-align: center; }
.condition img { width: 12rem; height: 12rem; }
.stats { flex: 1; display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.stat { border: 1px solid #ccc; padding: 1rem; }
.stat h2 { font-size: 1rem; margin: 0; }
.stat p { font-size: 1.5rem; margin: .5rem 0 0; }
</style>
</head>
<body>
<main>
<form method="post" action="/submit">
	<input type="text" name="city" placeholder="Enter city name" value="{{.Query}}">
	<button type="submit">Get Weather</button>
</form>
{{if .Loading}}
<p>Loading weather data...</p>
{{else if .Weather}}
<section class="report">
	<div class="condition">
		<h1>{{.Weather.City}}</h1>
		<img src="{{.Weather.IconURL}}" alt="{{.Weather.Description}}">
		<p>{{.Weather.Description}}</p>
	</div>
	<div class="stats">
		<div class="stat"><h2>Temperature</h2><p>{{.Weather.Temperature}}</p></div>
		<div class="stat"><h2>Humidity</h2><p>{{.Weather.Humidity}}</p></div>
		<div class="stat"><h2>Pressure</h2><p>{{.Weather.Pressure}}</p></div>
		<div class="stat"><h2>Wind Speed</h2><p>{{.Weather.WindSpeed}}</p></div>
	</div>
</section>
{{else if .Error}}
<p class="error">{{.Error.Message}}</p>
{{end}}
</main>
<script>
(function () {
	function post(path, body) {
		return fetch(path, {
			method: "POST",
			headers: { "Content-Type": "application/json", "Accept": "application/json" },
			body: JSON.stringify(body)
		}).then(function (res) {
			if (res.ok) { window.location.reload(); }
		});
	}

	document.querySelector("input[name=city]").addEventListener("change", function (e) {
		post("/query", { city: e.target.value });
	});
{{if not .Located}}
	// one attempt per tab, even when the session cookie does not stick
	if (window.sessionStorage.getItem("{{.LocateFlag}}")) {
		return;
	}
	window.sessionStorage.setItem("{{.LocateFlag}}", "1");
	if (!navigator.geolocation) {
		post("/locate", { error: "unsupported" });
		return;
	}
	navigator.geolocation.getCurrentPosition(
		function (pos) { post("/locate", { lat: pos.coords.latitude, lon: pos.coords.longitude }); },
		function (err) {
			var codes = { 1: "denied", 2: "unavailable", 3: "timeout" };
			post("/locate", { error: codes[err.code] || "unavailable" });
		}
	);
{{end}}
})();
</script>
</body>
</html>
`))

// locateFlag is the sessionStorage key marking that the page already asked
// the browser for its position
const locateFlag = "weather.located"

type pageData struct {
	domain.View
	LocateFlag string
}

func renderPage(w io.Writer, view domain.View) error {
	return pageTemplate.Execute(w, pageData{View: view, LocateFlag: locateFlag})
}
