package service

import (
	"context"
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/apperr"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/export"
)

// StatusConfigMissing 未配置模型接入时返回 428，前端据此跳转到配置页
const StatusConfigMissing = 428

// toHTTPError 将核心流程错误映射为 kratos 错误
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var se *kerrors.Error
	if errors.As(err, &se) {
		return err
	}

	var pe *apperr.ProviderError
	switch {
	case errors.Is(err, apperr.ErrConfigMissing):
		return kerrors.New(StatusConfigMissing, "CONFIG_MISSING", "请先配置模型接入").WithCause(err)
	case errors.Is(err, apperr.ErrUnknownPersona),
		errors.Is(err, apperr.ErrBatchTooLarge),
		errors.Is(err, apperr.ErrInvalidConfig),
		errors.Is(err, export.ErrUnknownFormat):
		return kerrors.BadRequest("INVALID_ARGUMENT", err.Error()).WithCause(err)
	case errors.Is(err, apperr.ErrBatchRunning):
		return kerrors.Conflict("BATCH_RUNNING", err.Error()).WithCause(err)
	case errors.Is(err, apperr.ErrNotFound):
		return kerrors.NotFound("NOT_FOUND", err.Error()).WithCause(err)
	case errors.As(err, &pe):
		return kerrors.New(502, "PROVIDER_ERROR", pe.Error()).WithCause(err)
	case errors.Is(err, apperr.ErrAcquisitionExhausted):
		return kerrors.New(502, "ACQUISITION_EXHAUSTED", err.Error()).WithCause(err)
	case errors.Is(err, apperr.ErrParseFailure), errors.Is(err, apperr.ErrEmptyCompletion):
		return kerrors.New(502, "BAD_COMPLETION", err.Error()).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return kerrors.GatewayTimeout("TIMEOUT", err.Error()).WithCause(err)
	}
	return kerrors.InternalServer("INTERNAL", err.Error()).WithCause(err)
}

func badRequest(message string) error {
	return kerrors.BadRequest("INVALID_ARGUMENT", message)
}
