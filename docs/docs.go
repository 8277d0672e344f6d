// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {
                        "description": "Admin credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current admin",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.principalResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/auth/change-password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Change admin password",
                "parameters": [
                    {
                        "description": "Current and new password",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.changePasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/users/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "User login",
                "parameters": [
                    {
                        "description": "User or admin credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current principal",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.principalResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Principal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "createdAt": {"type": "string"}
            }
        },
        "handler.changePasswordRequest": {
            "type": "object",
            "properties": {
                "currentPassword": {"type": "string"},
                "newPassword": {"type": "string", "maxLength": 72}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Invalid credentials"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "admin@shield.com"},
                "password": {"type": "string", "maxLength": 72, "example": "admin123"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.principalResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Principal"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.principalSummary": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "a@x.com"},
                "id": {"type": "string", "example": "665f1c2e8b3a4d0012ab34cd"},
                "name": {"type": "string", "example": "Alice"},
                "role": {"type": "string", "enum": ["admin", "user"]}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}
                },
                "status": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "maxLength": 254, "example": "a@x.com"},
                "name": {"type": "string", "example": "Alice"},
                "password": {"type": "string", "maxLength": 72, "example": "secret1"}
            }
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/handler.principalSummary"},
                "success": {"type": "boolean", "example": true},
                "token": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Shield Agency API",
	Description:      "Authentication and authorization for admins and users of the Shield Agency website.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
