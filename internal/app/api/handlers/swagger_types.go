package handlers

import (
	"github.com/epetitpas/aischool/pkg/response"
	"github.com/epetitpas/aischool/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespQuotaStatus wraps the quota snapshot in the standard envelope.
type RespQuotaStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.QuotaInfo          `json:"data"`
}
