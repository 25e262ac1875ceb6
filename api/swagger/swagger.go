package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Learning Progress API",
        "description": "Leaderboards, classroom analytics and student progress rollups",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Leaderboards", "description": "Ranked learners by metric, period and scope"},
        {"name": "Analytics", "description": "Classroom rollups, attention alerts and student progress"}
    ],
    "paths": {
        "/leaderboards": {
            "get": {
                "tags": ["Leaderboards"],
                "summary": "Ranked leaderboard",
                "parameters": [
                    {"name": "metric", "in": "query", "type": "string", "enum": ["wordsLearned", "currentStreak", "accuracy", "timeSpent"], "default": "wordsLearned"},
                    {"name": "period", "in": "query", "type": "string", "enum": ["daily", "weekly", "monthly", "allTime"], "default": "weekly"},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["global", "friends"], "default": "global"},
                    {"name": "limit", "in": "query", "type": "integer", "default": 50, "maximum": 200}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LeaderboardEnvelope"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaderboards/position": {
            "get": {
                "tags": ["Leaderboards"],
                "summary": "Caller's leaderboard position",
                "description": "data is null when the caller has no qualifying entry",
                "parameters": [
                    {"name": "metric", "in": "query", "type": "string", "enum": ["wordsLearned", "currentStreak", "accuracy", "timeSpent"]},
                    {"name": "period", "in": "query", "type": "string", "enum": ["daily", "weekly", "monthly", "allTime"]},
                    {"name": "scope", "in": "query", "type": "string", "enum": ["global", "friends"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PositionEnvelope"}}
                }
            }
        },
        "/classes/{id}/analytics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Class analytics for the teacher dashboard",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string", "enum": ["week", "month"], "default": "week"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ClassAnalyticsEnvelope"}},
                    "403": {"description": "Not the class teacher", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown class", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/analytics/export": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Download the per-student class report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string", "enum": ["week", "month"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Report document", "schema": {"type": "file"}}
                }
            }
        },
        "/classes/{id}/alerts": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Every student in the class needing attention",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/analytics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Student analytics",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LeaderboardEntry": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "userId": {"type": "string"},
                "displayName": {"type": "string"},
                "photoURL": {"type": "string"},
                "score": {"type": "number"},
                "isRequestingUser": {"type": "boolean"}
            }
        },
        "Leaderboard": {
            "type": "object",
            "properties": {
                "metric": {"type": "string"},
                "period": {"type": "string"},
                "scope": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/LeaderboardEntry"}},
                "periodStart": {"type": "string", "format": "date-time"},
                "periodEnd": {"type": "string", "format": "date-time"}
            }
        },
        "UserLeaderboardPosition": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "score": {"type": "number"},
                "totalParticipants": {"type": "integer"},
                "percentile": {"type": "integer"}
            }
        },
        "TrendPoint": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "value": {"type": "integer"}
            }
        },
        "StudentAlert": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "displayName": {"type": "string"},
                "alertType": {"type": "string", "enum": ["inactive", "streak_lost", "low_performance"]},
                "message": {"type": "string"},
                "severity": {"type": "string", "enum": ["low", "medium", "high"]}
            }
        },
        "ClassAnalytics": {
            "type": "object",
            "properties": {
                "classId": {"type": "string"},
                "period": {"type": "string"},
                "totalStudents": {"type": "integer"},
                "activeStudents": {"type": "integer"},
                "avgWordsLearned": {"type": "integer"},
                "avgAccuracy": {"type": "integer"},
                "avgTimeSpent": {"type": "integer"},
                "completionRate": {"type": "integer"},
                "topPerformers": {"type": "array", "items": {"type": "object"}},
                "needsAttention": {"type": "array", "items": {"$ref": "#/definitions/StudentAlert"}},
                "trendData": {"type": "array", "items": {"$ref": "#/definitions/TrendPoint"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseMeta": {
            "type": "object",
            "properties": {
                "cache_hit": {"type": "boolean"},
                "processing_time_ms": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"$ref": "#/definitions/ResponseMeta"}
            }
        },
        "LeaderboardEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Leaderboard"},
                "meta": {"$ref": "#/definitions/ResponseMeta"}
            }
        },
        "PositionEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/UserLeaderboardPosition"},
                "meta": {"$ref": "#/definitions/ResponseMeta"}
            }
        },
        "ClassAnalyticsEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ClassAnalytics"},
                "meta": {"$ref": "#/definitions/ResponseMeta"}
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
