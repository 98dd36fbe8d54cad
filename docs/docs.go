// Package docs registers the OpenAPI description served under /swagger/.
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
        "/meetups": {
            "get": {
                "tags": ["meetups"],
                "summary": "List upcoming meetups near a location",
                "parameters": [
                    {"type": "number", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "max_distance", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "missing_location"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["meetups"],
                "summary": "Create a meetup",
                "responses": {"201": {"description": "Created"}, "401": {"description": "unauthorized"}, "422": {"description": "validation_failed"}}
            }
        },
        "/meetups/past": {
            "get": {
                "tags": ["meetups"],
                "summary": "List past meetups near a location",
                "parameters": [
                    {"type": "number", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "name": "lat", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/meetups/recent": {
            "get": {
                "tags": ["meetups"],
                "summary": "List recently added meetups",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/meetups/{eventID}": {
            "get": {
                "tags": ["meetups"],
                "summary": "Get a meetup",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["meetups"],
                "summary": "Update a meetup",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "forbidden"}, "404": {"description": "not_found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["meetups"],
                "summary": "Delete a meetup",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "forbidden"}, "404": {"description": "not_found"}}
            }
        },
        "/meetups/{eventID}/comments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["meetups"],
                "summary": "Comment on a meetup",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "not_found"}}
            }
        },
        "/meetups/{eventID}/attend": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["attendance"],
                "summary": "Attend a meetup",
                "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "ok or already_attending"}, "401": {"description": "unauthenticated"}, "404": {"description": "not_found"}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get current user profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            }
        },
        "/users/me/email": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update current user's email",
                "responses": {"200": {"description": "OK"}, "409": {"description": "conflict"}, "422": {"description": "validation_failed"}}
            }
        },
        "/users/{userID}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user profile",
                "parameters": [{"type": "string", "name": "userID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Meetup Finder API",
	Description:      "Find meetups near you, read and comment on them, and mark attendance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
