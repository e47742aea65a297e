package main

import (
	"time"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/asyncx"
	"github.com/dmichel1/vigil/pkg/historyx"
	"github.com/dmichel1/vigil/pkg/logx"
	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/watchx"
	"github.com/gofiber/fiber/v2"
)

type executeRequest struct {
	Payload  map[string]interface{} `json:"payload"`
	Metadata map[string]interface{} `json:"metadata"`
}

type validateRequest struct {
	WatchID  string                 `json:"watch_id"`
	ActionID string                 `json:"action_id"`
	Action   map[string]interface{} `json:"action"`
}

// validateHandler parses an action document and echoes it back redacted.
// A 4xx from the parser tells the caller exactly which field is wrong.
func validateHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		if req.WatchID == "" {
			req.WatchID = "_validate"
		}
		if req.ActionID == "" {
			req.ActionID = "_validate"
		}

		executable, err := container.Factory.ParseExecutable(req.WatchID, req.ActionID, req.Action)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"valid":  true,
			"action": executable.Document(actionx.SerializeParams{HideSecrets: true}),
		})
	}
}

// executeHandler runs one action of a watch and records the outcome.
func executeHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		watchID := c.Params("watch_id")
		actionID := c.Params("action_id")

		executable := container.Definitions.Get(watchID, actionID)
		if executable == nil {
			return fiber.NewError(fiber.StatusNotFound, "unknown watch or action")
		}

		var req executeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}

		ectx := watchx.NewExecutionContext(watchID, time.Now(), req.Payload, req.Metadata)
		result := executable.Execute(c.Context(), actionID, ectx, nil)

		record := historyx.NewRecord(actionID, ectx, result)
		recordID, err := container.History.Record(c.Context(), record)
		if err != nil {
			logx.WithError(err).Error("failed to record execution history")
		}

		status := fiber.StatusOK
		if !result.OK() {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{
			"execution_id": ectx.Wid.Value(),
			"success":      result.OK(),
			"record_id":    recordID,
			"record":       record,
		})
	}
}

// executeAllHandler runs every action of a watch concurrently under one
// execution context, so all of them render against the same wid and times.
func executeAllHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		watchID := c.Params("watch_id")

		actions := container.Definitions.Actions(watchID)
		if len(actions) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "unknown watch")
		}

		var req executeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}

		ectx := watchx.NewExecutionContext(watchID, time.Now(), req.Payload, req.Metadata)
		ctx := c.Context()

		futures := make([]*asyncx.Future[historyx.Record], 0, len(actions))
		for actionID, executable := range actions {
			actionID, executable := actionID, executable
			futures = append(futures, asyncx.Run(func() (historyx.Record, error) {
				result := executable.Execute(ctx, actionID, ectx, nil)
				return historyx.NewRecord(actionID, ectx, result), nil
			}))
		}

		records, err := asyncx.AwaitAll(futures)
		if err != nil {
			return err
		}

		allOK := true
		for _, record := range records {
			if !record.Success {
				allOK = false
			}
			if _, err := container.History.Record(ctx, record); err != nil {
				logx.WithError(err).Error("failed to record execution history")
			}
		}

		return c.JSON(fiber.Map{
			"execution_id": ectx.Wid.Value(),
			"success":      allOK,
			"records":      records,
		})
	}
}

// historyHandler lists recent executions of a watch, newest first.
func historyHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		watchID := c.Params("watch_id")
		limit := c.QueryInt("limit", 50)

		records, err := container.History.List(c.Context(), watchID, limit)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"watch_id": watchID,
			"records":  records,
		})
	}
}

// ---------------------------------------------------------------------------
// Account management
// ---------------------------------------------------------------------------

func listAccountsHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := container.Accounts.List(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"accounts": accounts})
	}
}

func getAccountHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := container.Accounts.Get(c.Context(), c.Params("name"))
		if err != nil {
			return err
		}
		return c.JSON(account)
	}
}

func putAccountHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var account mailx.Account
		if err := c.BodyParser(&account); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		account.Name = c.Params("name")
		if account.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "account name is required")
		}
		if err := container.Accounts.Save(c.Context(), account); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(account)
	}
}

func deleteAccountHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := container.Accounts.Delete(c.Context(), c.Params("name")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
