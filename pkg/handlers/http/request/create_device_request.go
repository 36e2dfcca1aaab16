package request

type CreateDeviceRequest struct {
	Name         string  `json:"name"`
	Zone         string  `json:"zone"`
	Status       string  `json:"status"`
	BatteryLevel float64 `json:"battery_level"`
}
