package handlers

import (
	"github.com/pawcare/backend/internal/app/service/carelog"
	"github.com/pawcare/backend/internal/app/service/dogmessage"
	"github.com/pawcare/backend/internal/app/service/webhook"
	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespIngest wraps webhook.IngestResult in the standard envelope.
type RespIngest struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    webhook.IngestResult     `json:"data"`
}

// RespBatch wraps webhook.BatchResult in the standard envelope.
type RespBatch struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    webhook.BatchResult      `json:"data"`
}

// RespListWebhookEvents wraps webhook.ScanEventsResponse in the standard envelope.
type RespListWebhookEvents struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    webhook.ScanEventsResponse `json:"data"`
}

type RespUser struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.User              `json:"data"`
}

type RespCheckoutSession struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    CheckoutSessionResponse  `json:"data"`
}

type RespCareSetting struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.CareSetting       `json:"data"`
}

type RespVerifyPin struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    VerifyPinResponse        `json:"data"`
}

type RespCareLog struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.CareLog           `json:"data"`
}

type RespCareToday struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    carelog.Today            `json:"data"`
}

type RespWalkMission struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.WalkMission       `json:"data"`
}

type RespWalkMissions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.WalkMission     `json:"data"`
}

type RespReflectionNote struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.ReflectionNote    `json:"data"`
}

type RespReflectionNotes struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.ReflectionNote  `json:"data"`
}

type RespDogMessage struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    dogmessage.Message       `json:"data"`
}
