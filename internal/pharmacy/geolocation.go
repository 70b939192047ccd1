package pharmacy

// Device location error codes.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// Failure explains a failed location request and how to continue without it.
type Failure struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	FallbackAction string `json:"fallbackAction"`
	ManualEntry    bool   `json:"manualEntry"`
}

// ExplainFailure maps a device location error code to user-facing text.
func ExplainFailure(code int) Failure {
	f := Failure{Code: code, Message: "Unable to get your location. ", ManualEntry: true}
	switch code {
	case CodePermissionDenied:
		f.Message += "Location access was denied. "
		f.FallbackAction = "Please enable location permissions in your browser settings or enter your location manually."
	case CodePositionUnavailable:
		f.Message += "Location information is unavailable. "
		f.FallbackAction = "Please check your internet connection or enter your location manually."
	case CodeTimeout:
		f.Message += "Location request timed out. "
		f.FallbackAction = "Please try again or enter your location manually."
	default:
		f.Message += "An unknown error occurred. "
		f.FallbackAction = "Please enter your location manually."
	}
	return f
}
