// Package docs registers the OpenAPI document served under /swagger.
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
        "/tournaments/{tournamentID}/bracket": {
            "get": {
                "produces": ["application/json"],
                "tags": ["brackets"],
                "summary": "Получить сетку турнира",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Сетка", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир или сетка не найдены", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["brackets"],
                "summary": "Сгенерировать сетку турнира",
                "description": "Seeds eligible players by ranking (or the given player_ids) and creates every match. The body is optional.",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"description": "Players to seed", "name": "input", "in": "body", "schema": {"$ref": "#/definitions/services.GenerateBracketInput"}}
                ],
                "responses": {
                    "201": {"description": "Сетка создана", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Некорректный запрос", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "401": {"description": "Неавторизован", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "403": {"description": "Нет прав", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Турнир не найден", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Турнир не в статусе черновика", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "422": {"description": "Ошибка посева", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "503": {"description": "Турнир занят, повторите позже", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/tournaments/{tournamentID}/manual-seeding": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["brackets"],
                "summary": "Ручной посев и генерация сетки",
                "description": "Every bracket position 1..N must be listed exactly once; a null player_id marks a bye.",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"description": "Seed positions", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.manualSeedingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Сетка создана", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Некорректный запрос", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Турнир не найден", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Турнир не в статусе черновика", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "422": {"description": "Ошибка посева", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "503": {"description": "Турнир занят, повторите позже", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/matches/{matchID}/result": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Внести результат матча",
                "description": "Sets are applied in order until one side reaches the sets needed to win; later sets are ignored.",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "Set scores", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.SubmitResultInput"}}
                ],
                "responses": {
                    "200": {"description": "Результат сохранён", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Некорректный запрос", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Матч не найден", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Матч завершён или не готов", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "422": {"description": "Некорректный счёт", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "503": {"description": "Турнир занят, повторите позже", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/matches/check-tournament-completion/{tournamentID}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Проверить завершение турнира",
                "description": "Finishes the tournament if the final is decided. Repeated calls return the stored outcome.",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Состояние турнира", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир не найден", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "503": {"description": "Турнир занят, повторите позже", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.errorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "models.SeedAssignment": {
            "type": "object",
            "properties": {
                "position": {"type": "integer"},
                "player_id": {"type": "integer", "x-nullable": true}
            }
        },
        "handlers.manualSeedingRequest": {
            "type": "object",
            "properties": {
                "seeded_players": {"type": "array", "items": {"$ref": "#/definitions/models.SeedAssignment"}}
            }
        },
        "services.GenerateBracketInput": {
            "type": "object",
            "properties": {
                "player_ids": {"type": "array", "items": {"type": "integer"}},
                "seeded_players": {"type": "array", "items": {"$ref": "#/definitions/models.SeedAssignment"}}
            }
        },
        "brackets.SetScore": {
            "type": "object",
            "properties": {
                "player1_score": {"type": "integer"},
                "player2_score": {"type": "integer"}
            }
        },
        "services.SubmitResultInput": {
            "type": "object",
            "properties": {
                "sets": {"type": "array", "items": {"$ref": "#/definitions/brackets.SetScore"}},
                "winner_id": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bracket Engine API",
	Description:      "Single elimination brackets, match results and tournament completion.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
