// Package docs registra el OpenAPI servido en /swagger/*.
// Se regenera con: swag init -g cmd/api/main.go -o docs
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
        "/animals": {
            "get": {
                "summary": "Animales disponibles",
                "parameters": [
                    {"type": "boolean", "description": "fuerza un fetch al store", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/animals.Animal"}}},
                    "503": {"description": "store unavailable"}
                }
            },
            "post": {
                "summary": "Publicar un animal (multipart: campos + image)",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "type", "in": "formData", "required": true},
                    {"type": "string", "enum": ["Adopt", "Help"], "name": "purpose", "in": "formData", "required": true},
                    {"type": "string", "name": "city", "in": "formData", "required": true},
                    {"type": "string", "name": "address", "in": "formData", "required": true},
                    {"type": "number", "name": "latitude", "in": "formData"},
                    {"type": "number", "name": "longitude", "in": "formData"},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/animals.Animal"}},
                    "400": {"description": "incomplete submission"},
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/animals/{animalID}": {
            "get": {
                "summary": "Detalle de un animal",
                "parameters": [{"type": "string", "name": "animalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.Animal"}},
                    "404": {"description": "not found"}
                }
            }
        },
        "/animals/{animalID}/directions": {
            "get": {
                "summary": "URL de Google Maps hasta el animal",
                "parameters": [{"type": "string", "name": "animalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "location not available"}
                }
            }
        },
        "/animals/{animalID}/claim": {
            "post": {
                "summary": "Adoptar o ayudar a un animal",
                "parameters": [
                    {"type": "string", "name": "animalID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/claims.claimRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/claims.Result"}},
                    "202": {"description": "partial claim: retry /me/claims/retry"},
                    "400": {"description": "invalid purpose"},
                    "401": {"description": "unauthorized"},
                    "404": {"description": "not found"},
                    "409": {"description": "already claimed"},
                    "503": {"description": "store unavailable"}
                }
            }
        },
        "/me/claims/retry": {
            "post": {
                "summary": "Reintenta el registro del claim en el perfil",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/claims.retryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/claims.Result"}},
                    "403": {"description": "not the claimant"}
                }
            }
        },
        "/users": {
            "post": {
                "summary": "Alta del perfil del usuario autenticado",
                "responses": {"201": {"description": "Created"}, "409": {"description": "already exists"}}
            }
        },
        "/me/profile": {
            "get": {"summary": "Perfil con animales adoptados y ayudados", "responses": {"200": {"description": "OK"}}}
        },
        "/me/directory": {
            "patch": {"summary": "Opt-in del directorio (solo Doctor)", "responses": {"200": {"description": "OK"}, "403": {"description": "not a Doctor"}}}
        },
        "/doctors": {
            "get": {
                "summary": "Directorio de veterinarios por localidad",
                "parameters": [{"type": "string", "name": "city", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "animals.Geo": {
            "type": "object",
            "properties": {"latitude": {"type": "number"}, "longitude": {"type": "number"}}
        },
        "animals.Animal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "purpose": {"type": "string", "enum": ["Adopt", "Help"]},
                "city": {"type": "string"},
                "address": {"type": "string"},
                "imageUrl": {"type": "string"},
                "location": {"$ref": "#/definitions/animals.Geo"},
                "isAvailable": {"type": "boolean"},
                "claimedBy": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "claims.claimRequest": {
            "type": "object",
            "properties": {"purpose": {"type": "string", "enum": ["Adopt", "Help"]}}
        },
        "claims.retryRequest": {
            "type": "object",
            "properties": {"animal_id": {"type": "string"}, "purpose": {"type": "string"}}
        },
        "claims.Result": {
            "type": "object",
            "properties": {
                "animal_id": {"type": "string"},
                "user_id": {"type": "string"},
                "purpose": {"type": "string"},
                "claimed_at": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Adoption Hub API",
	Description:      "Catálogo de animales, claims (adoptar / ayudar), perfiles y directorio de veterinarios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
