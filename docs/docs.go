// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {"200": {"description": "Login successful"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Authentication required"}}
            }
        },
        "/semesters": {
            "get": {"tags": ["semesters"], "summary": "List semesters", "responses": {"200": {"description": "OK"}}}
        },
        "/semesters/{id}": {
            "get": {
                "tags": ["semesters"],
                "summary": "Get a semester",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Semester not found"}}
            }
        },
        "/semesters/{id}/resources": {
            "get": {
                "tags": ["semesters"],
                "summary": "Study resources of a semester",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "search", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Semester not found"}}
            }
        },
        "/syllabus/{semesterId}": {
            "get": {
                "tags": ["semesters"],
                "summary": "Syllabi of a semester",
                "parameters": [{"type": "integer", "name": "semesterId", "in": "path", "required": true}, {"type": "string", "name": "search", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Semester not found"}}
            }
        },
        "/papers/{semesterId}": {
            "get": {
                "tags": ["semesters"],
                "summary": "Question papers of a semester",
                "parameters": [{"type": "integer", "name": "semesterId", "in": "path", "required": true}, {"type": "string", "name": "search", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Semester not found"}}
            }
        },
        "/syllabi": {
            "get": {"tags": ["syllabi"], "summary": "List syllabi", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["syllabi"], "summary": "Upload a syllabus", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "Created"}, "403": {"description": "Admin role required"}, "422": {"description": "Validation failed"}}}
        },
        "/syllabi/{id}": {
            "get": {"tags": ["syllabi"], "summary": "Get a syllabus", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["syllabi"], "summary": "Update a syllabus", "consumes": ["multipart/form-data"], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["syllabi"], "summary": "Delete a syllabus", "responses": {"200": {"description": "OK"}}}
        },
        "/syllabi/{id}/download": {
            "get": {"tags": ["syllabi"], "summary": "Download a syllabus PDF", "produces": ["application/pdf"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/question-papers": {
            "get": {"tags": ["question-papers"], "summary": "List question papers", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["question-papers"], "summary": "Upload a question paper", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "Created"}}}
        },
        "/question-papers/{id}": {
            "get": {"tags": ["question-papers"], "summary": "Get a question paper", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["question-papers"], "summary": "Update a question paper", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["question-papers"], "summary": "Delete a question paper", "responses": {"200": {"description": "OK"}}}
        },
        "/question-papers/{id}/download": {
            "get": {"tags": ["question-papers"], "summary": "Download a question paper PDF", "produces": ["application/pdf"], "responses": {"200": {"description": "OK"}}}
        },
        "/resources": {
            "get": {"tags": ["resources"], "summary": "List study resources", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Upload a study resource", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "Created"}}}
        },
        "/resources/{id}": {
            "get": {"tags": ["resources"], "summary": "Get a study resource", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Update a study resource", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["resources"], "summary": "Delete a study resource", "responses": {"200": {"description": "OK"}}}
        },
        "/resources/{id}/download": {
            "get": {"tags": ["resources"], "summary": "Download a study resource", "responses": {"200": {"description": "OK"}}}
        },
        "/home": {
            "get": {"tags": ["home"], "summary": "Home feed", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/dashboard": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Admin dashboard counters", "responses": {"200": {"description": "OK"}}}
        },
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "Created"}, "409": {"description": "Email already exists"}}}
        },
        "/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update a user", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete a user", "responses": {"200": {"description": "OK"}}}
        },
        "/chat": {
            "post": {
                "tags": ["chat"],
                "summary": "Ask the AI assistant",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ChatRequest"}}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Validation failed"}, "500": {"description": "AI service unavailable"}}
            }
        },
        "/chat/models": {
            "get": {"tags": ["chat"], "summary": "List AI models", "responses": {"200": {"description": "OK"}}}
        },
        "/chat/health": {
            "get": {"tags": ["chat"], "summary": "AI service health", "responses": {"200": {"description": "OK"}}}
        },
        "/chat/ws": {
            "get": {"tags": ["chat"], "summary": "Chat over WebSocket", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "definitions": {
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin@example.com"},
                "password": {"type": "string", "example": "password"}
            }
        },
        "dto.ChatRequest": {
            "type": "object",
            "required": ["question"],
            "properties": {
                "question": {"type": "string", "example": "What topics are covered in DBMS?"},
                "context_type": {"type": "string", "enum": ["syllabus", "question"], "example": "syllabus"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token for authorization",
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
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "SemesterHub API",
	Description:      "Semester-organized syllabi, question papers and study resources, with an AI study assistant",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
