// Package docs holds the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "400": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/user/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}}
                }
            }
        },
        "/departments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["departments"],
                "summary": "List departments",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Department"}}}
                }
            }
        },
        "/departments/{id}/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["departments"],
                "summary": "List department members",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "List visible tasks",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Task"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Create a task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Task"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Get a task",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Task"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Update a task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Task"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/task-logs": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["task-logs"],
                "summary": "Create a work log",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskLogRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TaskLog"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/task-logs/{user_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["task-logs"],
                "summary": "List a user's work logs",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "user_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/TaskLog"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/task-logs/{user_id}/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["task-logs"],
                "summary": "Export a user's work logs",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "path", "name": "user_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/attendance/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Today's attendance state",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AttendanceStatus"}}
                }
            }
        },
        "/attendance/checkin": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Check in",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Attendance"}},
                    "400": {"description": "Already checked in", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/attendance/checkout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Check out",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Attendance"}},
                    "400": {"description": "Not checked in or already checked out", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/attendance/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Attendance history",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "description": "First day (YYYY-MM-DD)"},
                    {"in": "query", "name": "to", "type": "string", "description": "Last day (YYYY-MM-DD)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Attendance"}}}
                }
            }
        },
        "/attendance/history/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Export attendance history",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/wfh": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["wfh"],
                "summary": "List WFH requests",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/WFHRequest"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["wfh"],
                "summary": "Request work from home",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWFHRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/WFHRequest"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/approvals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["wfh"],
                "summary": "Pending approvals",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/WFHRequest"}}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {"detail": {}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "hod@company.com"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["Employee", "HOD", "Super Admin"]},
                "department_id": {"type": "string", "format": "uuid"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["Employee", "HOD", "Super Admin"]},
                "department": {"type": "string"},
                "departmentId": {"type": "string", "format": "uuid"}
            }
        },
        "Department": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "CreateTaskRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "priority": {"type": "string", "enum": ["Low", "Medium", "High"]},
                "dueDate": {"type": "string", "format": "date-time"},
                "assigneeIds": {"type": "array", "items": {"type": "string", "format": "uuid"}}
            }
        },
        "UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["To Do", "In Progress", "Done"]},
                "priority": {"type": "string", "enum": ["Low", "Medium", "High"]},
                "dueDate": {"type": "string", "format": "date-time"}
            }
        },
        "Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["To Do", "In Progress", "Done"]},
                "priority": {"type": "string", "enum": ["Low", "Medium", "High"]},
                "dueDate": {"type": "string", "format": "date-time"},
                "assignerId": {"type": "string", "format": "uuid"},
                "assignees": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "assigneeId": {"type": "string", "format": "uuid"},
                            "assigneeName": {"type": "string"}
                        }
                    }
                },
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "CreateTaskLogRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "description": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "durationMinutes": {"type": "integer"}
            }
        },
        "TaskLog": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "description": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "durationMinutes": {"type": "integer"},
                "userId": {"type": "string", "format": "uuid"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "Attendance": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "checkIn": {"type": "string", "format": "date-time"},
                "checkOut": {"type": "string", "format": "date-time"},
                "date": {"type": "string", "format": "date"}
            }
        },
        "AttendanceStatus": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["NOT_CHECKED_IN", "CHECKED_IN", "CHECKED_OUT"]},
                "isCheckedIn": {"type": "boolean"},
                "checkIn": {"type": "string", "format": "date-time"},
                "checkOut": {"type": "string", "format": "date-time"}
            }
        },
        "CreateWFHRequest": {
            "type": "object",
            "required": ["reason", "startDate", "endDate"],
            "properties": {
                "reason": {"type": "string"},
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"}
            }
        },
        "WFHRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "reason": {"type": "string"},
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["Pending", "Approved", "Rejected"]},
                "userId": {"type": "string", "format": "uuid"},
                "userName": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "TaskFlow API",
	Description:      "Office task, work log, attendance and work-from-home tracking",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
