// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Liveness and store reachability",
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "string"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errors.Envelope"}}
                }
            }
        },
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Sign-up data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CredentialsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/errors.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Envelope"}}
                }
            }
        },
        "/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CredentialsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/errors.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.Envelope"}}
                }
            }
        },
        "/thoughts": {
            "get": {
                "security": [{"AccessToken": []}],
                "produces": ["application/json"],
                "tags": ["thoughts"],
                "summary": "List the 20 newest thoughts",
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Thought"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.Envelope"}}
                }
            }
        },
        "/newthought": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["thoughts"],
                "summary": "Post a thought",
                "parameters": [
                    {"type": "string", "description": "Access token, stored with the thought", "name": "Authorization", "in": "header"},
                    {"description": "Thought", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.NewThoughtRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/errors.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Envelope"}}
                }
            }
        },
        "/{thoughtId}/like": {
            "post": {
                "produces": ["application/json"],
                "tags": ["thoughts"],
                "summary": "Add one heart to a thought",
                "parameters": [
                    {"type": "string", "description": "Thought ID", "name": "thoughtId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/errors.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "errors.Envelope": {
            "type": "object",
            "properties": {
                "response": {},
                "success": {"type": "boolean"}
            }
        },
        "handler.CredentialsRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.NewThoughtRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "model.Identity": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "userId": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "model.Thought": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "createdAt": {"type": "string"},
                "hearts": {"type": "integer"},
                "message": {"type": "string"},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "AccessToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Happy Thoughts API",
	Description:      "Sign up, sign in, post short thoughts and heart them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
