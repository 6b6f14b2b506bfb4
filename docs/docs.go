// Package docs registers the OpenAPI description served under /swagger.
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
        "/api/login": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Empty credentials fall back to the configured BMS account.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Log in to the BMS",
                "parameters": [{"description": "BMS credentials", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.vendorLoginRequest"}}],
                "responses": {"200": {"description": "message, cookies"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Drop the BMS session",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/set-temp": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Accepted range is 23 to 28 °C inclusive.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Set the target temperature",
                "parameters": [{"description": "Temperature payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.setTempRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VendorResult"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/control-ac": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Switch the AC on or off",
                "parameters": [{"description": "Status 1 is on, 0 is off", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.controlACRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VendorResult"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/set-schedule-status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Enable or disable the schedule",
                "parameters": [{"description": "Schedule status 1 is enabled", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.scheduleStatusRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VendorResult"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/set-schedule-time": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Set the daily on/off times",
                "parameters": [{"description": "Times are HH:MM", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.scheduleTimeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VendorResult"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/get-current-status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The parsed snapshot is also persisted for /api/state and /ws.",
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Read live device attributes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VendorResult"}}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/vfd-stats": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bms"],
                "summary": "Fetch historical VFD rows",
                "parameters": [{"description": "Range as start_date/end_date or Parm3/Parm4", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.statsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VendorResult"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/vfd-stats/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/pdf"],
                "tags": ["bms"],
                "summary": "Download VFD stats",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "name": "from", "in": "query", "required": true},
                    {"type": "string", "example": "2025-08-31", "name": "to", "in": "query", "required": true},
                    {"enum": ["xlsx", "pdf"], "type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["monitoring"],
                "summary": "Last known device snapshot",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DeviceStatus"}}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List audit events",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "name": "to", "in": "query"},
                    {"enum": ["LOGIN", "LOGOUT", "SET_TEMP", "CONTROL_AC", "SCHEDULE_STATUS", "SCHEDULE_TIME", "SESSION_EXPIRED", "VENDOR_ERROR"], "type": "string", "name": "type", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an operator account",
                "parameters": [{"description": "Operator credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.operatorCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue an operator token",
                "parameters": [{"description": "Operator credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.operatorCredentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        }
    },
    "definitions": {
        "handlers.operatorCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.vendorLoginRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.setTempRequest": {
            "type": "object",
            "properties": {"device_vfdReadingSetTemp": {"type": "number"}}
        },
        "handlers.controlACRequest": {
            "type": "object",
            "properties": {"device_vfdReadingFreq": {"type": "number"}, "device_vfdReadingStatus": {"type": "integer"}}
        },
        "handlers.scheduleStatusRequest": {
            "type": "object",
            "properties": {"device_vfdReadingFreq": {"type": "number"}, "device_vfdReadingScheduleStatus": {"type": "integer"}}
        },
        "handlers.scheduleTimeRequest": {
            "type": "object",
            "properties": {
                "device_vfdReadingFreq": {"type": "number"},
                "device_vfdReadingScheduleOffTime": {"type": "string"},
                "device_vfdReadingScheduleOnTime": {"type": "string"},
                "device_vfdReadingScheduleStatus": {"type": "integer"}
            }
        },
        "handlers.statsRequest": {
            "type": "object",
            "properties": {"Parm3": {"type": "string"}, "Parm4": {"type": "string"}, "end_date": {"type": "string"}, "start_date": {"type": "string"}}
        },
        "models.VendorResult": {
            "type": "object",
            "properties": {
                "bmsMessage": {"type": "string"},
                "bmsStatus": {"type": "string"},
                "bmsStatusCode": {"type": "string"},
                "contentType": {"type": "string"},
                "data": {},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "models.DeviceStatus": {
            "type": "object",
            "properties": {
                "ac_on": {"type": "boolean"},
                "device_log_time": {"type": "string"},
                "frequency_hz": {"type": "number"},
                "humidity": {"type": "number"},
                "id": {"type": "integer"},
                "mode": {"type": "string"},
                "power_kw": {"type": "number"},
                "readings": {"type": "object", "additionalProperties": {"type": "string"}},
                "return_air_c": {"type": "number"},
                "schedule_off_time": {"type": "string"},
                "schedule_on": {"type": "boolean"},
                "schedule_on_time": {"type": "string"},
                "set_temp_c": {"type": "number"},
                "updated_at": {"type": "string"}
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
	Title:            "BMS Proxy API",
	Description:      "JSON front for the vendor HVAC VFD web API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
