package css

// DefaultTheme is the built-in stylesheet that gives unstyled HTML its look:
// a soft white page, navy headings and sky blue accents. Callers pass it to
// the pipeline explicitly; nothing in this package applies it implicitly.
const DefaultTheme = `
/* Base theme */
html {
    background-color: #f8f9fa; /* soft white */
    color: #1a1a1a;
    font-family: 'Inter', system-ui, sans-serif;
    line-height: 1.6;
}

head, title, meta, link, script, style, template { display: none; }

span, a, em, strong, b, i, u, s, code, kbd, samp, small, big, sub, sup,
label, abbr, cite, q, mark, img, br, button, input, select, textarea {
    display: inline;
}

h1, h2, h3, h4, h5, h6 {
    color: #2c3e50; /* navy */
    font-weight: 700;
    margin-bottom: 0.5em;
}

h1 {
    font-size: 2.5em;
    border-bottom: 2px solid #3498db; /* sky blue */
    padding-bottom: 0.2em;
}

a {
    color: #3498db;
    text-decoration: none;
}

button {
    background-color: #3498db;
    color: white;
    border: none;
    padding: 0.5em 1em;
    font-weight: 600;
}

/* Status banner */
blockrender-status {
    display: block;
    background-color: #2c3e50;
    color: #ecf0f1;
    padding: 10px;
    font-family: monospace;
}
`

// AccentColor is the theme accent used for debug outlines.
var AccentColor = Color{52, 152, 219, 255}

// InitialValues holds the value of every property the engine understands
// before any rule or inheritance applies.
var InitialValues = map[string]string{
	"display":             "block",
	"color":               "#000000",
	"background-color":    "transparent",
	"width":               "auto",
	"height":              "auto",
	"margin-top":          "0",
	"margin-right":        "0",
	"margin-bottom":       "0",
	"margin-left":         "0",
	"padding-top":         "0",
	"padding-right":       "0",
	"padding-bottom":      "0",
	"padding-left":        "0",
	"border-top-width":    "0",
	"border-right-width":  "0",
	"border-bottom-width": "0",
	"border-left-width":   "0",
	"border-top-style":    "none",
	"border-right-style":  "none",
	"border-bottom-style": "none",
	"border-left-style":   "none",
	"border-top-color":    "currentcolor",
	"border-right-color":  "currentcolor",
	"border-bottom-color": "currentcolor",
	"border-left-color":   "currentcolor",
	"font-size":           "16px",
	"font-weight":         "400",
	"font-family":         "serif",
	"line-height":         "normal",
	"text-align":          "left",
	"text-decoration":     "none",
	"visibility":          "visible",
}

// Inherited lists the properties that copy the parent's computed value
// when no rule sets them.
var Inherited = map[string]bool{
	"color":       true,
	"font-family": true,
	"font-size":   true,
	"font-weight": true,
	"line-height": true,
	"text-align":  true,
	"visibility":  true,
}
