package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskReportDelivery = "reports.deliver"

type ReportDeliveryPayload struct {
	LeadID string `json:"leadId"`
}

func NewReportDeliveryTask(payload ReportDeliveryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportDelivery, data), nil
}

func ParseReportDeliveryPayload(task *asynq.Task) (ReportDeliveryPayload, error) {
	var payload ReportDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReportDeliveryPayload{}, err
	}
	return payload, nil
}
