package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the site API.
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
    <title>portfolio site API - Swagger</title>
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

// OpenAPI document for the site API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "portfolio-site", "version": "v1.0.0" },
  "components": {
    "securitySchemes": {
      "adminPass": { "type": "apiKey", "in": "header", "name": "X-Admin-Pass" },
      "bearer": { "type": "http", "scheme": "bearer" }
    }
  },
  "paths": {
    "/api/ping": { "get": { "summary": "API liveness", "responses": { "200": { "description": "{ok: true}" } } } },
    "/api/content": {
      "get": { "summary": "Content document", "responses": { "200": { "description": "flat map of dotted keys" } } },
      "post": {
        "summary": "Replace the content document; brochureN_file/brochureN_file_name are uploaded to brochures/",
        "security": [{ "adminPass": [] }, { "bearer": [] }],
        "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } },
        "responses": { "200": { "description": "{ok: true}" }, "401": { "description": "Unauthorized" } }
      }
    },
    "/api/projects": {
      "get": { "summary": "List projects", "responses": { "200": { "description": "project array" } } },
      "post": {
        "summary": "Insert (or update by body id) a project; imageBase64/imageFilename and galleryBase64 are uploaded",
        "security": [{ "adminPass": [] }, { "bearer": [] }],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"integer","nullable":true},"title":{"type":"string"},"category":{"type":"string"},"description":{"type":"string"},"plain_description":{"type":"string"},"image":{"type":"string"},"gallery":{"type":"array","items":{"type":"string"}},"video":{"type":"string"},"imageBase64":{"type":"string"},"imageFilename":{"type":"string"},"galleryBase64":{"type":"array","items":{"type":"object","properties":{"filename":{"type":"string"},"dataUrl":{"type":"string"}}}}}}}}},
        "responses": { "200": { "description": "stored project" }, "401": { "description": "Unauthorized" } }
      }
    },
    "/api/projects/{id}": {
      "get": { "summary": "Get one project", "responses": { "200": { "description": "project" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a project (path id wins)", "security": [{ "adminPass": [] }, { "bearer": [] }], "responses": { "200": { "description": "stored project" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a project", "security": [{ "adminPass": [] }, { "bearer": [] }], "responses": { "200": { "description": "{ok: true}" }, "404": { "description": "not found" } } }
    },
    "/api/login": {
      "post": { "summary": "Exchange the admin password for a session token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "token returned" }, "401": { "description": "Unauthorized" } } }
    },
    "/api/logout": {
      "post": { "summary": "Revoke the bearer session token", "security": [{ "bearer": [] }], "responses": { "200": { "description": "{ok: true}" }, "401": { "description": "Unauthorized" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
