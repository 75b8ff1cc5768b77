package model

import (
	"github.com/agrifog/agrimind/internal/model/entities"
	"github.com/agrifog/agrimind/internal/model/messages"
)

// Aliases exposing the common types to the services.

type (
	SensorData              = messages.SensorData
	NDVIRecord              = messages.NDVIRecord
	IrrigationDecisionEvent = messages.IrrigationDecisionEvent
	IrrigationEvent         = messages.IrrigationEvent

	FieldState         = entities.FieldState
	CropConfig         = entities.CropConfig
	MoistureThresholds = entities.MoistureThresholds
	IrrigationDecision = entities.IrrigationDecision
	AnomalyAlert       = entities.AnomalyAlert
	Report             = entities.Report
	UsageStats         = entities.UsageStats
	Stage              = entities.Stage
)
