package contexthelpers

import (
	"context"
	"net/http"
)

func SetDeviceID(r *http.Request, deviceID string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, DeviceIDContextKey, deviceID)
	return r.WithContext(ctx)
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}
