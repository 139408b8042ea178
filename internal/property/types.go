// Package property implements the agent's typed configuration store:
// a sorted table of keyed, attributed entries that every other
// component reads settings from and that the server can rewrite over
// the wire.
package property

import "fmt"

// Key is the 16-bit property identifier. The reserved ranges below
// mirror the layout recovered from the prior C implementation's
// props.h; they are documentation only, never used for dispatch.
type Key uint16

const (
	KeyRangeDeviceConfig Key = 0xEF00 // device configuration (serial ports, iBox, RFID)
	KeyRangeCommand      Key = 0xF000 // write-only command properties
	KeyRangeState        Key = 0xF100 // read-only/state properties
	KeyRangeComm         Key = 0xF300 // communication protocol properties
	KeyRangeGPS          Key = 0xF500 // GPS configuration
	KeyRangeMotion       Key = 0xF700 // motion/odometer
	KeyRangeIO           Key = 0xF900 // digital I/O, elapsed time
	KeyRangeAnalog       Key = 0xFB00 // analog/temperature sensors
)

// Type is the wire/storage representation of a property's values.
type Type int

const (
	TypeBoolean Type = iota
	TypeUint8
	TypeUint16
	TypeUint32
	TypeInt8
	TypeInt16
	TypeInt32
	TypeDecimal32
	TypeString
	TypeBinary
)

func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeDecimal32:
		return "decimal32"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Attr is a bitmask of property attributes.
type Attr uint8

const (
	AttrReadOnly Attr = 1 << iota
	AttrWriteOnly
	AttrHidden
	AttrSave
	AttrChanged
	AttrNonDefault
)

func (a Attr) Has(f Attr) bool { return a&f != 0 }

// Definition is the static, compile-time description of one property:
// its key, name, type, fixed cardinality, decimal scale (meaningful
// only for TypeDecimal32), starting attributes, and init-string
// default. The table built from these mirrors propman.c's
// `properties[]` array.
type Definition struct {
	Key     Key
	Name    string
	Type    Type
	Count   int
	Scale   uint // decimal places, e.g. Scale=1 stores tenths
	Attr    Attr
	Default string
}
