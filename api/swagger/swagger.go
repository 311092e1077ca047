package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "sched-engine API",
        "description": "Master academic scheduling engine: feasibility, matching, solving, conflict detection, and schedule lifecycle.",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Authenticate an operator",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "summary": "Generate a schedule proposal",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/scheduler/feasibility": {
            "get": {
                "summary": "Run the feasibility audit",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
