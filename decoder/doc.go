// Package decoder implements reflection-based HTTP request decoder.
//
// Request structure is the single source of truth about handler expectations.
//
// When *fasthttp.RequestCtx comes, the values that it holds are assigned into a new instance of handler
// request structure. Parameter descriptors are built once from field tags when decoder is made:
//
//   - `param` binds request parameter, uploaded file or multipart part by name,
//     an empty tag value means the name is taken from the field,
//   - `default` provides value for absent or empty parameter,
//   - `required:"false"` allows absent parameter,
//   - `header` for parameters in request header,
//   - `cookie` for parameters in request cookie,
//   - `json` for JSON request body.
//
// Untagged exported fields of simple types are bound to request parameters by field name
// if resolver is configured to resolve simple types by default.
//
// Sample request structure:
//
//	type UploadRequest struct {
//		Title   string                  `param:"title" default:"untitled"`
//		Tags    []string                `param:"tag" required:"false"`
//		Files   []*multipart.FileHeader `param:"file"`
//		Locale  string                  `header:"Accept-Language"`
//		Session string                  `cookie:"session"`
//	}
package decoder
