package registry

// SchemaType identifies the format of a registered schema
type SchemaType string

const (
	SchemaTypeProtobuf SchemaType = "PROTOBUF"
	SchemaTypeAvro     SchemaType = "AVRO"
	SchemaTypeJSON     SchemaType = "JSON"
)

// Valid reports whether the schema type is one the registry accepts
func (t SchemaType) Valid() bool {
	switch t {
	case SchemaTypeProtobuf, SchemaTypeAvro, SchemaTypeJSON:
		return true
	default:
		return false
	}
}

// Reference declares that a schema depends on another registered schema.
// Name is the identifier used inside the schema text (for protobuf, the
// import path); Subject and Version locate the registered dependency.
type Reference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}

// RegisteredSchema is a schema version as reported by the registry
type RegisteredSchema struct {
	Subject    string      `json:"subject"`
	ID         int         `json:"id"`
	Version    int         `json:"version"`
	SchemaType SchemaType  `json:"schemaType"`
	Schema     string      `json:"schema"`
	References []Reference `json:"references,omitempty"`
}

// registerRequest is the payload for registering a new schema version
type registerRequest struct {
	Schema     string      `json:"schema"`
	SchemaType SchemaType  `json:"schemaType"`
	References []Reference `json:"references,omitempty"`
}

// registerResponse is the registry's answer to a registration
type registerResponse struct {
	ID      int `json:"id"`
	Version int `json:"version"`
}

// errorResponse is the registry's JSON error body
type errorResponse struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}
