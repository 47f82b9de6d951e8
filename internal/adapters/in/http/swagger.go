package http

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

var registerDocOnce sync.Once

// apiDoc serves the OpenAPI document to the swagger UI.
type apiDoc struct {
	json string
}

// ReadDoc returns the document as JSON.
func (d apiDoc) ReadDoc() string {
	return d.json
}

// registerAPIDoc publishes doc under the default swag instance name, the
// one echo-swagger reads. swag panics on duplicate names, so only the
// first document is registered.
func registerAPIDoc(doc *openapi3.T) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, apiDoc{json: string(data)})
	})
	return nil
}
