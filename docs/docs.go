// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "paths": {
        "/shipping/calculate": {
            "post": {
                "operationId": "calculateShipping",
                "tags": ["shipping"],
                "summary": "Calculate shipping",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CalculateRequest"}}}},
                "responses": {
                    "200": {"description": "Quote", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}},
                    "400": {"$ref": "#/components/responses/Error"},
                    "429": {"$ref": "#/components/responses/Error"},
                    "500": {"$ref": "#/components/responses/Error"}
                }
            }
        },
        "/shipping/methods": {
            "get": {
                "operationId": "listShippingMethods",
                "tags": ["shipping"],
                "summary": "List shipping methods",
                "responses": {"200": {"description": "Methods", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}}
            }
        },
        "/checkout": {
            "post": {
                "operationId": "startCheckout",
                "tags": ["checkout"],
                "summary": "Start checkout",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/StartCheckoutRequest"}}}},
                "responses": {
                    "201": {"description": "Session", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}},
                    "400": {"$ref": "#/components/responses/Error"}
                }
            }
        },
        "/checkout/{id}": {
            "parameters": [{"$ref": "#/components/parameters/SessionID"}],
            "get": {
                "operationId": "getCheckout",
                "tags": ["checkout"],
                "summary": "Get checkout session",
                "responses": {
                    "200": {"description": "Session", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}},
                    "404": {"$ref": "#/components/responses/Error"}
                }
            },
            "delete": {
                "operationId": "abandonCheckout",
                "tags": ["checkout"],
                "summary": "Abandon checkout",
                "responses": {
                    "204": {"description": "Abandoned"},
                    "404": {"$ref": "#/components/responses/Error"},
                    "409": {"$ref": "#/components/responses/Error"}
                }
            }
        },
        "/checkout/{id}/contact": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "put": {"operationId": "updateCheckoutContact", "tags": ["checkout"], "summary": "Update contact details", "responses": {"200": {"$ref": "#/components/responses/Session"}, "400": {"$ref": "#/components/responses/Error"}}}},
        "/checkout/{id}/address": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "put": {"operationId": "updateCheckoutAddress", "tags": ["checkout"], "summary": "Update delivery address", "responses": {"200": {"$ref": "#/components/responses/Session"}, "400": {"$ref": "#/components/responses/Error"}}}},
        "/checkout/{id}/shipping-method": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "put": {"operationId": "selectCheckoutShipping", "tags": ["checkout"], "summary": "Select shipping method", "responses": {"200": {"$ref": "#/components/responses/Session"}, "400": {"$ref": "#/components/responses/Error"}, "500": {"$ref": "#/components/responses/Error"}}}},
        "/checkout/{id}/payment": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "put": {"operationId": "updateCheckoutPayment", "tags": ["checkout"], "summary": "Update payment details", "responses": {"200": {"$ref": "#/components/responses/Session"}, "400": {"$ref": "#/components/responses/Error"}}}},
        "/checkout/{id}/continue": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "post": {"operationId": "continueCheckout", "tags": ["checkout"], "summary": "Continue to the next stage", "responses": {"200": {"$ref": "#/components/responses/Session"}, "400": {"$ref": "#/components/responses/Error"}}}},
        "/checkout/{id}/back": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "post": {"operationId": "backCheckout", "tags": ["checkout"], "summary": "Return to an earlier stage", "responses": {"200": {"$ref": "#/components/responses/Session"}, "400": {"$ref": "#/components/responses/Error"}}}},
        "/checkout/{id}/place": {"parameters": [{"$ref": "#/components/parameters/SessionID"}], "post": {"operationId": "placeOrder", "tags": ["checkout"], "summary": "Place the order", "responses": {"201": {"description": "Order", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "400": {"$ref": "#/components/responses/Error"}, "409": {"$ref": "#/components/responses/Error"}}}},
        "/orders": {"get": {"operationId": "listCustomerOrders", "tags": ["orders"], "summary": "List a customer's orders", "parameters": [{"name": "customerId", "in": "query", "required": true, "schema": {"type": "string", "format": "uuid"}}, {"name": "page", "in": "query", "schema": {"type": "integer", "default": 1}}, {"name": "page_size", "in": "query", "schema": {"type": "integer", "default": 20, "maximum": 100}}], "responses": {"200": {"description": "Orders", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "400": {"$ref": "#/components/responses/Error"}}}},
        "/orders/{ref}": {"get": {"operationId": "getOrder", "tags": ["orders"], "summary": "Get order by ID or order number", "parameters": [{"name": "ref", "in": "path", "required": true, "schema": {"type": "string"}}], "responses": {"200": {"description": "Order", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "404": {"$ref": "#/components/responses/Error"}}}},
        "/admin/auth/token": {"post": {"operationId": "adminLogin", "tags": ["admin"], "summary": "Issue admin token", "responses": {"200": {"description": "Token", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "401": {"$ref": "#/components/responses/Error"}, "429": {"$ref": "#/components/responses/Error"}}}},
        "/admin/auth/logout": {"post": {"operationId": "adminLogout", "tags": ["admin"], "summary": "Revoke admin token", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Revoked"}, "401": {"$ref": "#/components/responses/Error"}}}},
        "/admin/shipping/zones": {"get": {"operationId": "listShippingZones", "tags": ["admin"], "summary": "List shipping zones", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Zones", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "401": {"$ref": "#/components/responses/Error"}}}},
        "/admin/shipping/rates": {"get": {"operationId": "listShippingRates", "tags": ["admin"], "summary": "List weight bands", "security": [{"BearerAuth": []}], "parameters": [{"name": "zoneId", "in": "query", "schema": {"type": "string"}}, {"name": "method", "in": "query", "schema": {"type": "string", "enum": ["standard", "express"]}}], "responses": {"200": {"description": "Bands", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "401": {"$ref": "#/components/responses/Error"}, "404": {"$ref": "#/components/responses/Error"}}}},
        "/admin/shipping/tables/validate": {"post": {"operationId": "validateShippingTables", "tags": ["admin"], "summary": "Validate shipping tables", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Validation result", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "400": {"$ref": "#/components/responses/Error"}, "401": {"$ref": "#/components/responses/Error"}}}},
        "/admin/reports/shipping": {"get": {"operationId": "shippingReport", "tags": ["admin"], "summary": "Shipping report", "security": [{"BearerAuth": []}], "parameters": [{"name": "from", "in": "query", "schema": {"type": "string", "format": "date"}}, {"name": "to", "in": "query", "schema": {"type": "string", "format": "date"}}], "responses": {"200": {"description": "Report", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}}, "401": {"$ref": "#/components/responses/Error"}}}}
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        },
        "parameters": {
            "SessionID": {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
        },
        "responses": {
            "Session": {"description": "Checkout session", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Response"}}}},
            "Error": {"description": "Error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        },
        "schemas": {
            "Response": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean"},
                    "data": {},
                    "meta": {"$ref": "#/components/schemas/Meta"}
                }
            },
            "Meta": {
                "type": "object",
                "properties": {
                    "total": {"type": "integer"},
                    "page": {"type": "integer"},
                    "page_size": {"type": "integer"},
                    "total_pages": {"type": "integer"}
                }
            },
            "ErrorResponse": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean", "example": false},
                    "error": {
                        "type": "object",
                        "properties": {
                            "code": {"type": "string", "example": "VALIDATION_ERROR"},
                            "message": {"type": "string"},
                            "request_id": {"type": "string"},
                            "details": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}}}
                        }
                    }
                }
            },
            "CalculateRequest": {
                "type": "object",
                "required": ["postcode", "weight"],
                "properties": {
                    "postcode": {"type": "string", "example": "3220"},
                    "weight": {"type": "number", "example": 2.5},
                    "method": {"type": "string", "enum": ["standard", "express"]},
                    "items": {"type": "array", "items": {"type": "object", "properties": {"price": {"type": "number"}, "quantity": {"type": "integer"}}}}
                }
            },
            "StartCheckoutRequest": {
                "type": "object",
                "required": ["items"],
                "properties": {
                    "customerId": {"type": "string", "format": "uuid"},
                    "items": {"type": "array", "items": {"type": "object", "properties": {
                        "productId": {"type": "string", "format": "uuid"},
                        "name": {"type": "string"},
                        "unitPrice": {"type": "string", "example": "49.95"},
                        "quantity": {"type": "integer"},
                        "unitWeight": {"type": "string", "example": "1.5"}
                    }}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Parts Storefront API",
	Description:      "Shipping calculator and checkout for the parts storefront",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
