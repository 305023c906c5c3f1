package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskBoardReconcile re-derives project status and progress for a tenant
// after a multi-write board mutation.
const TaskBoardReconcile = "board.reconcile"

type BoardReconcilePayload struct {
	TenantID string `json:"tenantId"`
}

func NewBoardReconcileTask(payload BoardReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBoardReconcile, data), nil
}

func ParseBoardReconcilePayload(task *asynq.Task) (BoardReconcilePayload, error) {
	var payload BoardReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BoardReconcilePayload{}, err
	}
	return payload, nil
}
