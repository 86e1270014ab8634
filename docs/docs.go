// Package docs holds the OpenAPI description served under /swagger.
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
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness and store reachability", "responses": {"200": {"description": "OK"}, "503": {"description": "Store unreachable"}}}},
        "/student/register": {"post": {"tags": ["student"], "summary": "Register a student", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRegisterRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Student"}}, "400": {"description": "Bad Request"}}}},
        "/student/login": {"post": {"tags": ["student"], "summary": "Student login", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}}, "401": {"description": "Unauthorized"}}}},
        "/student/{id}": {"get": {"tags": ["student"], "summary": "Student profile", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}}, "404": {"description": "Not Found"}}}},
        "/student/order": {"post": {"tags": ["orders"], "summary": "Place an order as a student", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StudentOrderRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Order"}}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/student/order/{id}": {"get": {"tags": ["orders"], "summary": "Order history of a student, newest first", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderListResponse"}}}}},
        "/student/{id}/orders/{orderId}": {"delete": {"tags": ["orders"], "summary": "Remove an order from the student's history", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "path", "name": "orderId", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/stall": {"get": {"tags": ["stall"], "summary": "List stalls with their menus", "responses": {"200": {"description": "OK"}}}},
        "/stall/register": {"post": {"tags": ["stall"], "summary": "Register a stall", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StallRegisterRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Stall"}}, "400": {"description": "Bad Request"}}}},
        "/stall/login": {"post": {"tags": ["stall"], "summary": "Stall login", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Stall"}}, "401": {"description": "Unauthorized"}}}},
        "/stall/{id}": {
            "get": {"tags": ["stall"], "summary": "Get a stall", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Stall"}}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["stall"], "summary": "Delete a stall and drop it from every student's favorites", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/stall/{id}/orders": {"get": {"tags": ["orders"], "summary": "Orders received by a stall, newest first", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderListResponse"}}}}},
        "/stall/{id}/orders/{orderId}/status": {"put": {"tags": ["orders"], "summary": "Move a pending order to completed or cancelled", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "path", "name": "orderId", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Order"}}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/stall/menu": {"post": {"tags": ["menu"], "summary": "Add a menu item", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Stall"}}, "404": {"description": "Not Found"}}}},
        "/stall/menu/{stallId}/{itemId}": {
            "put": {"tags": ["menu"], "summary": "Update a menu item; omitted fields keep their value", "parameters": [{"in": "path", "name": "stallId", "type": "string", "required": true}, {"in": "path", "name": "itemId", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Stall"}}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["menu"], "summary": "Delete a menu item", "parameters": [{"in": "path", "name": "stallId", "type": "string", "required": true}, {"in": "path", "name": "itemId", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Stall"}}, "404": {"description": "Not Found"}}}
        },
        "/stall/order": {"post": {"tags": ["orders"], "summary": "Record an order at the counter", "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Order"}}, "409": {"description": "Conflict"}}}},
        "/stall/deleteOrder": {"post": {"tags": ["orders"], "summary": "Remove an order from the stall's list", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/orders/{id}": {"get": {"tags": ["orders"], "summary": "Get an order", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Order"}}, "404": {"description": "Not Found"}}}},
        "/preferences/{studentId}/theme": {
            "get": {"tags": ["preferences"], "summary": "Theme preference of a student", "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["preferences"], "summary": "Set the theme preference", "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/preferences/{studentId}/favorites": {
            "get": {"tags": ["preferences"], "summary": "Favorites with their stalls", "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["preferences"], "summary": "Add a favorite; menuItemId all marks the whole stall", "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["preferences"], "summary": "Remove a favorite; menuItemId all removes every entry of the stall", "parameters": [{"in": "path", "name": "studentId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/reviews": {"post": {"tags": ["reviews"], "summary": "Review a stall or one of its menu items", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/reviews/stall/{stallId}": {"get": {"tags": ["reviews"], "summary": "Reviews of a stall, newest first", "parameters": [{"in": "path", "name": "stallId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/reviews/stall/{stallId}/menu-item/{menuItemId}": {"get": {"tags": ["reviews"], "summary": "Reviews of one menu item, newest first", "parameters": [{"in": "path", "name": "stallId", "type": "string", "required": true}, {"in": "path", "name": "menuItemId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/reviews/stall/{stallId}/recompute": {"post": {"tags": ["reviews"], "summary": "Rebuild the stall and menu item ratings from every review", "parameters": [{"in": "path", "name": "stallId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/reviews/{reviewId}": {
            "put": {"tags": ["reviews"], "summary": "Edit a review", "parameters": [{"in": "path", "name": "reviewId", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["reviews"], "summary": "Delete a review", "parameters": [{"in": "path", "name": "reviewId", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "StallRegisterRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "description": {"type": "string"}, "cuisineType": {"type": "string", "enum": ["Indian", "Chinese", "Fast Food", "Other"]}, "kind": {"type": "string", "enum": ["standard", "simple"]}}},
        "StudentRegisterRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "Student": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "themePreference": {"type": "string", "enum": ["light", "dark", "system"]}, "favorites": {"type": "array", "items": {"type": "object"}}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}},
        "Stall": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "description": {"type": "string"}, "cuisineType": {"type": "string", "enum": ["Indian", "Chinese", "Fast Food", "Other"]}, "kind": {"type": "string", "enum": ["standard", "simple"]}, "menu": {"type": "array", "items": {"type": "object"}}, "averageRating": {"type": "number"}, "totalReviews": {"type": "integer"}}},
        "OrderItem": {"type": "object", "properties": {"item": {"type": "string"}, "price": {"type": "number"}}},
        "StudentOrderRequest": {"type": "object", "required": ["studentId", "items"], "properties": {"id": {"type": "string"}, "studentId": {"type": "string"}, "stallId": {"type": "string"}, "name": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/OrderItem"}}, "pickupTime": {"type": "string"}, "paymentStatus": {"type": "string"}, "transactionId": {"type": "string"}}},
        "StatusRequest": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["pending", "completed", "cancelled"]}, "message": {"type": "string"}}},
        "Order": {"type": "object", "properties": {"id": {"type": "string"}, "studentId": {"type": "string"}, "stallId": {"type": "string"}, "stallName": {"type": "string"}, "name": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/OrderItem"}}, "total": {"type": "number"}, "status": {"type": "string"}, "statusMessage": {"type": "string"}, "pickupTime": {"type": "string"}, "paymentStatus": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}},
        "OrderListResponse": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/Order"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campus Eats API",
	Description:      "Students order from campus food stalls; stalls manage menus and order status.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
