package docs

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"net/http"
)

//go:embed openapi.yaml swagger.html
var content embed.FS

// asset es un archivo de documentación embebido, leído una sola vez al
// cargar el paquete. El ETag sale del contenido: cambia el archivo,
// cambia el tag, y el cliente revalida con If-None-Match.
type asset struct {
	body        []byte
	contentType string
	etag        string
}

func loadAsset(name, contentType string) asset {
	body, err := content.ReadFile(name)
	if err != nil {
		// go:embed garantiza que el archivo existe; si falta, el binario
		// se construyó mal y no tiene sentido arrancar.
		panic(fmt.Sprintf("docs: asset %s no embebido: %v", name, err))
	}

	sum := sha256.Sum256(body)
	return asset{
		body:        body,
		contentType: contentType,
		etag:        fmt.Sprintf(`"%x"`, sum[:8]),
	}
}

var (
	openAPIDocument = loadAsset("openapi.yaml", "application/yaml; charset=utf-8")
	swaggerPage     = loadAsset("swagger.html", "text/html; charset=utf-8")
)

func (a asset) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", a.etag)
	w.Header().Set("Cache-Control", "no-cache")

	if r.Header.Get("If-None-Match") == a.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", a.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.body)
}
