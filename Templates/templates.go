package Templates

import (
	"embed"
	"net/http"
	"strings"

	"github.com/gofiber/template/html"
)

//go:embed *.html
var files embed.FS

// Engine is the fiber view engine over the embedded templates.
func Engine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("upper", strings.ToUpper)
	return engine
}
