package web

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts every API endpoint on the app under /api.
func RegisterRoutes(app *fiber.App, handlers *APIHandlers) {
	app.Get("/", handlers.Index)

	api := app.Group("/api")

	executions := api.Group("/executions")
	executions.Get("/:id", handlers.GetExecutionState)
	executions.Put("/:id", handlers.UpdateExecutionState)
	executions.Get("/:id/nodes/:nodeId", handlers.GetNodeStatus)
	executions.Put("/:id/nodes/:nodeId", handlers.UpdateNodeStatus)
	executions.Post("/:id/transfer/:sourceNodeId/:targetNodeId", handlers.TransferData)
	executions.Post("/:id/manual/:nodeId", handlers.ManualNodeAction)

	workflows := api.Group("/workflows")
	workflows.Get("/", handlers.GetWorkflows)
	workflows.Post("/", handlers.CreateWorkflow)
	workflows.Post("/import", handlers.ImportWorkflow)
	workflows.Get("/:id", handlers.GetWorkflow)
	workflows.Put("/:id", handlers.UpdateWorkflow)
	workflows.Delete("/:id", handlers.DeleteWorkflow)
	workflows.Post("/:id/execute", handlers.ExecuteWorkflow)
	workflows.Post("/:id/clone", handlers.CloneWorkflow)
	workflows.Get("/:id/export", handlers.ExportWorkflow)
	workflows.Post("/:id/connections", handlers.CreateConnection)
	workflows.Delete("/:id/connections/:connectionId", handlers.DeleteConnection)

	agents := api.Group("/agents")
	agents.Get("/", handlers.GetAgents)
	agents.Post("/", handlers.CreateAgent)
	agents.Get("/:id", handlers.GetAgent)
	agents.Put("/:id", handlers.UpdateAgent)
	agents.Delete("/:id", handlers.DeleteAgent)
	agents.Post("/:id/execute", handlers.ExecuteAgent)

	modelGroup := api.Group("/models")
	modelGroup.Get("/", handlers.GetModels)
	modelGroup.Post("/", handlers.CreateModel)
	modelGroup.Get("/:id", handlers.GetModel)
	modelGroup.Put("/:id", handlers.UpdateModel)
	modelGroup.Delete("/:id", handlers.DeleteModel)
	modelGroup.Post("/:id/execute", handlers.ExecuteModel)

	templates := api.Group("/templates")
	templates.Get("/", handlers.GetTemplates)
	templates.Post("/", handlers.CreateTemplate)
	templates.Get("/:id", handlers.GetTemplate)
	templates.Put("/:id", handlers.UpdateTemplate)
	templates.Delete("/:id", handlers.DeleteTemplate)
	templates.Post("/:id/apply", handlers.ApplyTemplate)

	api.Get("/node-types", handlers.GetNodeTypes)

	files := api.Group("/files")
	files.Post("/upload", handlers.UploadFiles)
	files.Get("/:id", handlers.GetFile)
	files.Delete("/:id", handlers.DeleteFile)

	api.Get("/health", handlers.HealthCheck)
}
