package contexthelpers

import (
	"context"
)

// DeviceID returns the device identifier bound to the request session or the
// empty string when the request has not been assigned one.
func DeviceID(ctx context.Context) string {
	deviceID, ok := ctx.Value(DeviceIDContextKey).(string)
	if !ok {
		return ""
	}

	return deviceID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}
