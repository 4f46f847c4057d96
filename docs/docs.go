// Package docs registers the Swagger description served under /swagger.
// Keep it in step with the handler annotations.
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
        "/api/chat": {
            "post": {
                "description": "Relays the student's message to the language model using the prompt bound to the access key. Unknown keys, expired sessions and model failures are reported in ai_response with status 200.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Student"],
                "summary": "Send a chat turn to the tutor",
                "parameters": [
                    {
                        "description": "Chat turn",
                        "name": "chat",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ChatRequestDTO"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ChatResponseDTO"}},
                    "400": {"description": "Malformed request body", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/admin/prompts": {
            "post": {
                "description": "Stores a tutoring prompt with optional newline-separated exercises and issues a unique access key. Requires an admin session cookie.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin - Prompts"],
                "summary": "(Admin) Create a prompt",
                "parameters": [
                    {
                        "description": "Prompt data",
                        "name": "prompt",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.PromptCreateDTO"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.PromptCreatedDTO"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Admin login required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Could not create the prompt", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/check_access/{key}": {
            "get": {
                "description": "Reports whether the key exists and, if so, who it belongs to and when its session started.",
                "produces": ["application/json"],
                "tags": ["Student"],
                "summary": "Check an access key",
                "parameters": [
                    {"type": "string", "description": "Access key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccessCheckDTO"}},
                    "404": {"description": "Unknown key", "schema": {"$ref": "#/definitions/dto.AccessCheckDTO"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/generate_exercise": {
            "post": {
                "description": "Asks the language model for an exercise on the prompt's topic and appends it to the prompt's exercise list.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Student"],
                "summary": "Generate a new exercise",
                "parameters": [
                    {
                        "description": "Access key and prompt id",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.GenerateExerciseRequestDTO"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GenerateExerciseResponseDTO"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Access key and prompt id do not match", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Model or storage failure", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/submit_solution": {
            "post": {
                "description": "Appends the exercise and solution to the key's history.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Student"],
                "summary": "Record a student's solution",
                "parameters": [
                    {
                        "description": "Solution",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SubmitSolutionRequestDTO"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Unknown access key", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AccessCheckDTO": {
            "type": "object",
            "properties": {
                "exists": {"type": "boolean"},
                "session_start_time": {"type": "string"},
                "student_email": {"type": "string"},
                "topic": {"type": "string"}
            }
        },
        "dto.ChatRequestDTO": {
            "type": "object",
            "required": ["access_key", "user_message"],
            "properties": {
                "access_key": {"type": "string"},
                "action": {"type": "string"},
                "user_message": {"type": "string"}
            }
        },
        "dto.ChatResponseDTO": {
            "type": "object",
            "properties": {
                "ai_response": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"}
            }
        },
        "dto.GenerateExerciseRequestDTO": {
            "type": "object",
            "required": ["access_key", "prompt_id"],
            "properties": {
                "access_key": {"type": "string"},
                "prompt_id": {"type": "integer"}
            }
        },
        "dto.GenerateExerciseResponseDTO": {
            "type": "object",
            "properties": {
                "exercise": {"type": "string"},
                "exercise_id": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "dto.PromptCreateDTO": {
            "type": "object",
            "required": ["prompt_content", "student_email", "topic"],
            "properties": {
                "exercises_text": {"type": "string"},
                "prompt_content": {"type": "string"},
                "student_email": {"type": "string", "maxLength": 120},
                "topic": {"type": "string", "maxLength": 120}
            }
        },
        "dto.PromptCreatedDTO": {
            "type": "object",
            "properties": {
                "access_key": {"type": "string"},
                "created_at": {"type": "string"},
                "exercise_count": {"type": "integer"},
                "id": {"type": "integer"},
                "student_email": {"type": "string"},
                "topic": {"type": "string"}
            }
        },
        "dto.SubmitSolutionRequestDTO": {
            "type": "object",
            "required": ["access_key", "exercise_text", "solution_text"],
            "properties": {
                "access_key": {"type": "string"},
                "difficulty": {"type": "string", "maxLength": 50},
                "exercise_text": {"type": "string"},
                "exercise_type": {"type": "string", "maxLength": 120},
                "solution_text": {"type": "string"}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Tutor Keys API",
	Description:      "Access-key gated AI tutoring: chat relay, exercise generation and solution history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
