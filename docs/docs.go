// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.authMessage"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.authMessage"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.authMessage"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.authMessage"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.authMessage"}}
                }
            }
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Logout", "responses": {"204": {"description": "No Content"}}}
        },
        "/catalog/products": {
            "get": {
                "tags": ["catalog"],
                "summary": "List products",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Create a product",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.productRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/catalog/products/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Get a product",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Update a product",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.productRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Product"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Delete a product",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/catalog/categories": {
            "get": {"tags": ["catalog"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["catalog"], "summary": "Add a category", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/catalog/categories/{name}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Remove a category",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/cart": {
            "get": {"tags": ["cart"], "summary": "Get the cart", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.CartView"}}}},
            "delete": {"tags": ["cart"], "summary": "Empty the cart", "responses": {"204": {"description": "No Content"}}}
        },
        "/cart/items": {
            "post": {"tags": ["cart"], "summary": "Add a product to the cart", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.CartView"}}}}
        },
        "/cart/items/{productId}": {
            "put": {"tags": ["cart"], "summary": "Set the quantity of a cart line", "parameters": [{"type": "integer", "name": "productId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["cart"], "summary": "Remove a cart line", "parameters": [{"type": "integer", "name": "productId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/checkout": {
            "post": {
                "tags": ["cart"],
                "summary": "Check out the cart with a simulated payment",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.checkoutRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/orders": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "List orders", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Record an order", "responses": {"201": {"description": "Created"}}}
        },
        "/customers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "List customers", "responses": {"200": {"description": "OK"}}}
        },
        "/analytics": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["orders"], "summary": "Sales summary", "responses": {"200": {"description": "OK"}}}
        },
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Get store settings", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Update store settings", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "domain.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"}
            }
        },
        "ports.CartView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "lines": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "number"},
                "checkedOutOrderId": {"type": "string"}
            }
        },
        "handler.authMessage": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "token": {"type": "string"},
                "role": {"type": "string"},
                "redirectUrl": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.registerResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "username": {"type": "string"}}
        },
        "handler.productRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "price": {"type": "number"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"}
            }
        },
        "handler.checkoutRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"},
                "paymentMethod": {"type": "string"},
                "total": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalog, cart, checkout and admin endpoints of the storefront backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
