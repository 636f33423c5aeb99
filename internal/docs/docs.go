// Package docs contains the generated Swagger specification.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "User registered"},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "responses": {
                    "200": {"description": "Logged in"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/google": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in with a Google ID token",
                "responses": {
                    "200": {"description": "Signed in"},
                    "401": {"description": "Token verification failed"}
                }
            }
        },
        "/category-types": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["category-types"],
                "summary": "List category types",
                "responses": {"200": {"description": "Category types"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["category-types"],
                "summary": "Create a category type",
                "responses": {
                    "201": {"description": "Category type created"},
                    "409": {"description": "Duplicate name"}
                }
            }
        },
        "/expense-categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expense-categories"],
                "summary": "List expense categories",
                "responses": {"200": {"description": "Expense categories"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expense-categories"],
                "summary": "Create an expense category",
                "responses": {
                    "201": {"description": "Category created"},
                    "409": {"description": "Duplicate name"}
                }
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "responses": {"200": {"description": "Expenses"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Create an expense",
                "responses": {
                    "201": {"description": "Expense created"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/incomes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["incomes"],
                "summary": "List income records",
                "responses": {"200": {"description": "Income records"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["incomes"],
                "summary": "Create an income record",
                "responses": {
                    "201": {"description": "Income created"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/payments/create-order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Create a payment order",
                "responses": {
                    "201": {"description": "Order created"},
                    "500": {"description": "Gateway error"}
                }
            }
        },
        "/payments/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Verify a payment",
                "responses": {
                    "200": {"description": "Payment captured"},
                    "400": {"description": "Invalid signature"}
                }
            }
        },
        "/payments/webhook": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Payment webhook",
                "responses": {
                    "200": {"description": "Event accepted"},
                    "400": {"description": "Invalid signature or payload"}
                }
            }
        },
        "/ocr/receipt": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyze a receipt",
                "responses": {
                    "200": {"description": "Extracted fields"},
                    "500": {"description": "Model error"}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get profile",
                "responses": {
                    "200": {"description": "Profile"},
                    "404": {"description": "Profile not found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "responses": {"200": {"description": "Updated profile"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "PaisaBook API",
	Description:      "PaisaBook is a personal finance backend for tracking expenses and income, with receipt analysis, payments and Google sign-in.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
