package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portal API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>doctors-portal - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "doctors-portal", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } },
      "InsertResult": { "type": "object", "properties": { "acknowledged": { "type": "boolean" }, "insertedId": { "type": "string" } } },
      "UpdateResult": { "type": "object", "properties": { "acknowledged": { "type": "boolean" }, "matchedCount": { "type": "integer" }, "modifiedCount": { "type": "integer" }, "upsertedCount": { "type": "integer" }, "upsertedId": { "type": "string", "nullable": true } } },
      "Payment": { "type": "object", "required": ["transaction"], "properties": { "amount": { "type": "integer", "description": "minor units" }, "currency": { "type": "string" }, "created": { "type": "integer" }, "last4": { "type": "string" }, "transaction": { "type": "string" } } },
      "Appointment": { "type": "object", "required": ["email", "date"], "properties": { "_id": { "type": "string" }, "patientName": { "type": "string" }, "email": { "type": "string" }, "phone": { "type": "string" }, "serviceName": { "type": "string" }, "time": { "type": "string" }, "date": { "type": "string", "description": "YYYY-MM-DD, RFC 3339 or M/D/YYYY on input; YYYY-MM-DD on output" }, "price": { "type": "number" }, "payment": { "$ref": "#/components/schemas/Payment" } }, "additionalProperties": true },
      "Doctor": { "type": "object", "properties": { "_id": { "type": "string" }, "name": { "type": "string" }, "email": { "type": "string" }, "image": { "type": "string", "format": "byte" }, "contentType": { "type": "string" }, "imageUrl": { "type": "string" } } },
      "User": { "type": "object", "required": ["email"], "properties": { "email": { "type": "string" }, "displayName": { "type": "string" } }, "additionalProperties": true }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Greeting", "responses": { "200": { "description": "Hello Doctors Portal!" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/appointments": {
      "get": {
        "summary": "List a patient's appointments on a date",
        "security": [ {}, { "bearer": [] } ],
        "parameters": [
          { "name": "email", "in": "query", "required": true, "schema": { "type": "string" } },
          { "name": "date", "in": "query", "required": true, "schema": { "type": "string" } }
        ],
        "responses": { "200": { "description": "appointments (possibly empty)" }, "400": { "description": "missing email or bad date" } }
      },
      "post": {
        "summary": "Book an appointment",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Appointment" } } } },
        "responses": { "201": { "description": "inserted" }, "400": { "description": "invalid appointment" } }
      }
    },
    "/appointments/{id}": {
      "get": { "summary": "Get an appointment", "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "appointment" }, "400": { "description": "bad id" }, "404": { "description": "not found" } } },
      "put": {
        "summary": "Attach a payment to an appointment",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Payment" } } } },
        "responses": { "200": { "description": "updated" }, "404": { "description": "not found" }, "409": { "description": "already paid" } }
      }
    },
    "/doctors": {
      "get": { "summary": "List doctors", "responses": { "200": { "description": "doctors" } } },
      "post": {
        "summary": "Add a doctor (admin only)",
        "security": [ { "bearer": [] } ],
        "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "required": ["name", "email", "image"], "properties": { "name": { "type": "string" }, "email": { "type": "string" }, "image": { "type": "string", "format": "binary" } } } } } },
        "responses": { "201": { "description": "inserted" }, "403": { "description": "not an admin" }, "413": { "description": "image too large" } }
      }
    },
    "/users": {
      "post": { "summary": "Register a user", "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/User" } } } }, "responses": { "201": { "description": "inserted" }, "409": { "description": "already registered" } } },
      "put": { "summary": "Create or update a user profile", "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/User" } } } }, "responses": { "200": { "description": "upserted" } } }
    },
    "/users/{email}": {
      "get": { "summary": "Check admin status", "parameters": [ { "name": "email", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "{admin: boolean}" } } }
    },
    "/users/admin": {
      "put": {
        "summary": "Grant the admin role (admin only)",
        "security": [ { "bearer": [] } ],
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "required": ["email"], "properties": { "email": { "type": "string" } } } } } },
        "responses": { "200": { "description": "updated" }, "403": { "description": "requester is not an admin" } }
      }
    },
    "/create-payment-intent": {
      "post": {
        "summary": "Create a card payment intent",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "required": ["price"], "properties": { "price": { "type": "number" }, "appointmentId": { "type": "string" } } } } } },
        "responses": { "200": { "description": "{clientSecret}" }, "400": { "description": "invalid price" }, "409": { "description": "appointment already paid" }, "502": { "description": "processor error" }, "503": { "description": "payments not configured" } }
      }
    }
  }
}`
