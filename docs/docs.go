// Package docs 由 swag init 生成，接口变更后重新生成
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
        "/health": {
            "get": {
                "description": "检查服务状态",
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "503": {"description": "存储不可用", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "用户名不区分大小写，成功后返回 JWT 和用户信息",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "用户登录",
                "parameters": [
                    {"description": "登录信息", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controller.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "登录成功", "schema": {"$ref": "#/definitions/util.Response"}},
                    "401": {"description": "用户名或密码错误", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/teacher/questions/import": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "支持 xlsx 和 csv，返回导入会话（通过的题目和逐行错误），需要再调用 commit 才会写入题库",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["题库导入"],
                "summary": "上传并校验题目文件",
                "parameters": [
                    {"type": "file", "description": "题目文件", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/util.Response"}},
                    "413": {"description": "文件过大", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        },
        "/teacher/questions/import/{id}/commit": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "逐条写入通过校验的题目，中途失败时已写入的题目保留，会话随之失效",
                "produces": ["application/json"],
                "tags": ["题库导入"],
                "summary": "确认导入",
                "parameters": [
                    {"type": "string", "description": "导入会话ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/util.Response"}},
                    "404": {"description": "会话不存在或已过期", "schema": {"$ref": "#/definitions/util.Response"}},
                    "409": {"description": "会话正在提交", "schema": {"$ref": "#/definitions/util.Response"}}
                }
            }
        }
    },
    "definitions": {
        "controller.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "util.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Classroom 后端 API",
	Description:      "班级学习管理系统的后端服务。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
