// Package docs registers the closetrent OpenAPI document with swag.
// Regenerate with: swag init -g cmd/main.go
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
        "/api/clothes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clothes"],
                "summary": "List inventory items, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Clothes"}}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["clothes"],
                "summary": "Add an inventory item with its image",
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "ownerName", "in": "formData"},
                    {"type": "number", "name": "rentalPrice", "in": "formData"},
                    {"type": "string", "name": "description", "in": "formData"},
                    {"type": "string", "name": "status", "in": "formData", "enum": ["available", "rented"]},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Clothes"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/clothes/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["clothes"],
                "summary": "Get the display view of an inventory item",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ClothesDetail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["clothes"],
                "summary": "Update an inventory item, optionally replacing its image",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "formData"},
                    {"type": "string", "name": "ownerName", "in": "formData"},
                    {"type": "number", "name": "rentalPrice", "in": "formData"},
                    {"type": "string", "name": "description", "in": "formData"},
                    {"type": "string", "name": "status", "in": "formData", "enum": ["available", "rented"]},
                    {"type": "file", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Clothes"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["clothes"],
                "summary": "Delete an inventory item",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/rentals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rentals"],
                "summary": "List rental orders, newest first",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.RentalOrder"}}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["rentals"],
                "summary": "Create a rental order",
                "parameters": [
                    {"type": "string", "name": "customerName", "in": "formData", "required": true},
                    {"type": "string", "name": "clothesIds", "in": "formData", "required": true, "description": "JSON array of clothes ids"},
                    {"type": "string", "name": "quantities", "in": "formData", "required": true, "description": "JSON array of quantities, same length as clothesIds"},
                    {"type": "string", "name": "rentDate", "in": "formData", "required": true},
                    {"type": "string", "name": "returnDate", "in": "formData", "required": true},
                    {"type": "boolean", "name": "isPaid", "in": "formData"},
                    {"type": "number", "name": "totalAmount", "in": "formData"},
                    {"type": "file", "name": "identityCard", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.RentalOrder"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/rentals/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rentals"],
                "summary": "Get a rental order",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RentalOrder"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/rentals/{id}/slip": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["rentals"],
                "summary": "Download the rental confirmation slip",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "common.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "models.Clothes": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "ownerName": {"type": "string"},
                "rentalPrice": {"type": "number"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["available", "rented"]},
                "image": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.ClothesDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "originalPrice": {"type": "number"},
                "images": {"type": "array", "items": {"type": "string"}},
                "sizes": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "sku": {"type": "string"}
            }
        },
        "models.RentalItem": {
            "type": "object",
            "properties": {
                "position": {"type": "integer"},
                "clothesId": {"type": "string"},
                "quantity": {"type": "integer"},
                "unitPrice": {"type": "number"}
            }
        },
        "models.RentalOrder": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "customerName": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.RentalItem"}},
                "identityImage": {"type": "string"},
                "rentDate": {"type": "string"},
                "returnDate": {"type": "string"},
                "isPaid": {"type": "boolean"},
                "totalAmount": {"type": "number"},
                "createdAt": {"type": "string"}
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
	Title:            "closetrent API",
	Description:      "Inventory and rental order management for a clothing-rental shop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
