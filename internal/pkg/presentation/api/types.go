package api

import (
	"encoding/json"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
)

type meta struct {
	TotalRecords uint64 `json:"totalRecords"`
	Count        uint64 `json:"count"`
}

type ApiResponse struct {
	Meta  *meta  `json:"meta,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (r ApiResponse) Byte() []byte {
	b, _ := json.Marshal(r)
	return b
}

func newListResponse[T any](items []T) ApiResponse {
	if items == nil {
		items = []T{}
	}

	return ApiResponse{
		Meta: &meta{
			TotalRecords: uint64(len(items)),
			Count:        uint64(len(items)),
		},
		Data: items,
	}
}

type registerDeviceRequest struct {
	types.DeviceInfo
}

type selectDeviceRequest struct {
	DeviceID string `json:"deviceId"`
}

type simulationRequest struct {
	Enabled *bool `json:"enabled"`
}

type registeredDevice struct {
	ID string `json:"id"`
}

type tamperResponse struct {
	AlertID string `json:"alertId,omitempty"`
}
