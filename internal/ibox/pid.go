// Package ibox implements the MID/PID request/response engine toward
// the serial-attached transport refrigeration controller ("iBox"),
// following the SAE-J1708-style Mobile Data Interchange convention.
package ibox

import "github.com/ositech/dmtp-agent/internal/property"

// PID identifies a single iBox parameter.
type PID byte

// Supported PID numbers, recovered from the prior implementation's
// thermo.h constant list.
const (
	PIDRequestParameter          PID = 0
	PIDFuelLevel                 PID = 96
	PIDBatteryVoltage            PID = 168
	PIDAmbientAirTemperature     PID = 171
	PIDCarTemperatureZone1       PID = 200
	PIDCarTemperatureZone2       PID = 201
	PIDCarTemperatureZone3       PID = 202
	PIDCargoWatchSensorRead      PID = 203
	PIDPowerControl              PID = 205
	PIDUnitControlCapability     PID = 206
	PIDMultiAlarmReadCapability  PID = 207
	PIDExtenParaIDCapability     PID = 208
	PIDSoftwareID                PID = 234
	PIDTotalElecHours            PID = 235
	PIDComponentIDPara           PID = 243
	PIDVehicleHours              PID = 246
	PIDEngineHours               PID = 247
)

// PowerOffValue is the PID 205 command payload byte that requests the
// transport refrigeration unit (and, following it, the iBox serial
// device) be powered off.
const PowerOffValue byte = 0x00

// pollDescriptor associates a polled PID with the property pair that
// configures it: index 0 is the sample-rate seconds (0xFFFF means
// "once"), index 1 is the per-request timeout seconds.
type pollDescriptor struct {
	pid      PID
	rateKey  property.Key
	validPID bool
}

// commandDescriptor associates a command PID with the write-only
// command string property and its companion timeout property.
type commandDescriptor struct {
	pid        PID
	cmdKey     property.Key
	timeoutKey property.Key
}

// pollTable is the fixed PID-to-property wiring recovered from
// iBox.c's scan_request_pid switch statement.
var pollTable = []pollDescriptor{
	{PIDFuelLevel, property.KeyIbox96Request, true},
	{PIDBatteryVoltage, property.KeyIbox168Request, true},
	{PIDAmbientAirTemperature, property.KeyIbox171Request, true},
	{PIDCarTemperatureZone1, property.KeyIbox200Request, true},
	{PIDCarTemperatureZone2, property.KeyIbox201Request, true},
	{PIDCarTemperatureZone3, property.KeyIbox202Request, true},
	{PIDCargoWatchSensorRead, property.KeyIbox203Request, true},
	{PIDMultiAlarmReadCapability, property.KeyIbox207Request, true},
	{PIDSoftwareID, property.KeyIbox234Request, true},
	{PIDTotalElecHours, property.KeyIbox235Request, true},
	{PIDComponentIDPara, property.KeyIbox243Request, true},
	{PIDVehicleHours, property.KeyIbox246Request, true},
	{PIDEngineHours, property.KeyIbox247Request, true},
}

// commandTable is the fixed command-PID wiring recovered from
// iBox.c's command-PID switch statement.
var commandTable = []commandDescriptor{
	{PIDPowerControl, property.KeyIbox205Command, property.KeyIbox205CmdTimeout},
	{PIDUnitControlCapability, property.KeyIbox206Command, property.KeyIbox206CmdTimeout},
	{PIDExtenParaIDCapability, property.KeyIbox208Command, property.KeyIbox208CmdTimeout},
}
