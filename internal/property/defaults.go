package property

// Key constants for the properties the agent itself consults.
// Numeric values and defaults are recovered from the prior
// implementation's propman.c definition table and props.h key map.
const (
	KeyCfgGPSPort  Key = 0xEF21
	KeyCfgGPSBPS   Key = 0xEF22
	KeyCfgGPSModel Key = 0xEF2A

	KeyIboxPort          Key = 0xEF30
	KeyIboxMID           Key = 0xEF31
	KeyIbox96Request     Key = 0xEF32
	KeyIbox168Request    Key = 0xEF33
	KeyIbox171Request    Key = 0xEF34
	KeyIbox200Request    Key = 0xEF35
	KeyIbox201Request    Key = 0xEF36
	KeyIbox202Request    Key = 0xEF37
	KeyIbox203Request    Key = 0xEF38
	KeyIbox207Request    Key = 0xEF39
	KeyIbox234Request    Key = 0xEF3A
	KeyIbox235Request    Key = 0xEF3B
	KeyIbox243Request    Key = 0xEF3C
	KeyIbox246Request    Key = 0xEF3D
	KeyIbox247Request    Key = 0xEF3E
	KeyIbox205Command    Key = 0xEF3F
	KeyIbox205CmdTimeout Key = 0xEF40
	KeyIbox206Command    Key = 0xEF41
	KeyIbox206CmdTimeout Key = 0xEF42
	KeyIbox208Command    Key = 0xEF43
	KeyIbox208CmdTimeout Key = 0xEF44

	KeyRFIDReaderEnable       Key = 0xEF70
	KeyRFIDReaderPort         Key = 0xEF72
	KeyRFIDReaderBPS          Key = 0xEF74
	KeyRFIDCompanyIDRange     Key = 0xEF75
	KeyRFIDPrimaryIDDivisor   Key = 0xEF78
	KeyRFIDInMotion           Key = 0xEF7A
	KeyRFIDPrimaryID          Key = 0xEF7B
	KeyRFIDPrimaryIDRange     Key = 0xEF7C
	KeyRFIDLockIDRange        Key = 0xEF7D
	KeyRFIDPrimaryRSSITimer   Key = 0xEF81
	KeyRFIDPrimaryRSSI        Key = 0xEF82
	KeyRFIDSwitchIDRange      Key = 0xEF83
	KeyRFIDCargoMinRSSI       Key = 0xEF84
	KeyRFIDCargoIDRange       Key = 0xEF85
	KeyRFIDCargoSampleMode    Key = 0xEF86
	KeyRFIDBatteryLifeMax     Key = 0xEF88
	KeyRFIDLockReportIntrvl   Key = 0xEF8A
	KeyRFIDBatteryAlarmIntrvl Key = 0xEF8C
	KeyRFIDSwitchReportIntrvl Key = 0xEF8D
	KeyRFIDCargoReportIntrvl  Key = 0xEF8E

	KeyCmdSaveProps Key = 0xF000
	KeyCmdReset     Key = 0xF0FF

	KeyStateProtocol  Key = 0xF100
	KeyStateFirmware  Key = 0xF101
	KeyStateSerial    Key = 0xF110
	KeyStateUniqueID  Key = 0xF112
	KeyStateAccountID Key = 0xF114
	KeyStateDeviceID  Key = 0xF115
	KeyStateTime      Key = 0xF121
	KeyStateRTSCheck  Key = 0xF191
	KeyStateIboxEnable Key = 0xF201
	KeyStateAliveIntrvl Key = 0xF205

	KeyCommSpeakFirst Key = 0xF303
	KeyCommFirstBrief Key = 0xF305
	KeyCommMTU        Key = 0xF321
	KeyCommUDPTimer   Key = 0xF322
	KeyCommHostB      Key = 0xF391
	KeyCommPortB      Key = 0xF392
	KeyCommHost       Key = 0xF3A1
	KeyCommPort       Key = 0xF3A2
)

// UDPTimer vector indices: property 0xF322 holds {per-attempt timeout
// seconds, retry count}, matching spec.md §4.4's UDP_TIMER[0]/[1].
const (
	UDPTimerTimeoutIndex = 0
	UDPTimerRetriesIndex = 1
)

// RTSCheck vector indices: property 0xF191 holds {enable flag, check
// interval in minutes}, matching SerialPinMonitor.c's
// propGetUInt32AtIndex(PROP_STATE_RTS_CHECK, 1, 1) read of index 1.
const (
	RTSCheckEnableIndex   = 0
	RTSCheckIntervalIndex = 1
)

// DefaultDefinitions is the agent's compiled-in property table, key
// sorted. It must stay sorted: NewStore verifies this at construction
// and falls back to a linear scan (logging a warning) if it ever
// drifts out of order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{KeyCfgGPSPort, "cfg.gps.port", TypeString, 1, 0, AttrReadOnly, "ttyS3"},
		{KeyCfgGPSBPS, "cfg.gps.bps", TypeUint32, 1, 0, AttrReadOnly, "9600"},
		{KeyCfgGPSModel, "cfg.gps.model", TypeString, 1, 0, AttrReadOnly, "sirf"},

		{KeyIboxPort, "ibox.port", TypeString, 1, 0, AttrSave, "/dev/ttyS1"},
		{KeyIboxMID, "ibox.mid", TypeUint32, 1, 0, AttrSave, "147"},
		{KeyIbox96Request, "ibox.96.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox168Request, "ibox.168.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox171Request, "ibox.171.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox200Request, "ibox.200.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox201Request, "ibox.201.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox202Request, "ibox.202.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox203Request, "ibox.203.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox207Request, "ibox.207.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox234Request, "ibox.234.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox235Request, "ibox.235.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox243Request, "ibox.243.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox246Request, "ibox.246.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox247Request, "ibox.247.request", TypeUint32, 2, 0, AttrSave, "0,1"},
		{KeyIbox205Command, "ibox.205.command", TypeString, 1, 0, AttrWriteOnly, ""},
		{KeyIbox205CmdTimeout, "ibox.205.cmd.timeout", TypeUint32, 1, 0, AttrSave, "1"},
		{KeyIbox206Command, "ibox.206.command", TypeString, 1, 0, AttrWriteOnly, ""},
		{KeyIbox206CmdTimeout, "ibox.206.cmd.timeout", TypeUint32, 1, 0, AttrSave, "1"},
		{KeyIbox208Command, "ibox.208.command", TypeString, 1, 0, AttrWriteOnly, ""},
		{KeyIbox208CmdTimeout, "ibox.208.cmd.timeout", TypeUint32, 1, 0, AttrSave, "1"},

		{KeyRFIDReaderEnable, "rfid.reader.enable", TypeUint8, 1, 0, AttrSave, "1"},
		{KeyRFIDReaderPort, "rfid.reader.port", TypeString, 1, 0, AttrSave, "ttyS1"},
		{KeyRFIDReaderBPS, "rfid.reader.bps", TypeUint32, 1, 0, AttrSave, "115200"},
		{KeyRFIDCompanyIDRange, "rfid.company.id.range", TypeUint32, 2, 0, AttrSave, "1,0xFFFFFF"},
		{KeyRFIDPrimaryIDDivisor, "rfid.primary.id.divisor", TypeUint32, 2, 0, AttrSave, "1,0"},
		{KeyRFIDInMotion, "rfid.in.motion", TypeUint32, 2, 0, AttrSave, "6,60"},
		{KeyRFIDPrimaryID, "rfid.primary.id", TypeUint32, 1, 0, AttrSave, "0"},
		{KeyRFIDPrimaryIDRange, "rfid.primary.id.range", TypeUint32, 5, 0, AttrSave, "0,0,30,45,120"},
		{KeyRFIDLockIDRange, "rfid.lock.id.range", TypeUint32, 5, 0, AttrSave, "0,0,10,15,40"},
		{KeyRFIDPrimaryRSSITimer, "rfid.primary.rssi.timer", TypeUint32, 1, 0, AttrSave, "120"},
		{KeyRFIDPrimaryRSSI, "rfid.primary.rssi", TypeUint8, 2, 0, AttrSave, "10,100"},
		{KeyRFIDSwitchIDRange, "rfid.switch.id.range", TypeUint32, 5, 0, AttrSave, "0,0,30,45,120"},
		{KeyRFIDCargoMinRSSI, "rfid.cargo.rssi", TypeUint8, 1, 0, AttrSave, "0"},
		{KeyRFIDCargoIDRange, "rfid.cargo.id.range", TypeUint32, 5, 0, AttrSave, "0,0,30,45,120"},
		{KeyRFIDCargoSampleMode, "rfid.cargo.sample.mode", TypeUint8, 1, 0, AttrSave, "0"},
		{KeyRFIDBatteryLifeMax, "rfid.battery.runtime.max", TypeUint8, 1, 0, AttrSave, "255"},
		{KeyRFIDLockReportIntrvl, "rfid.lock.rpt.intrvl", TypeUint32, 3, 0, AttrSave, "60,60,1"},
		{KeyRFIDBatteryAlarmIntrvl, "rfid.battery.alarm.intrvl", TypeUint32, 1, 0, AttrSave, "3600"},
		{KeyRFIDSwitchReportIntrvl, "rfid.switch.rpt.intrvl", TypeUint32, 2, 0, AttrSave, "0,0"},
		{KeyRFIDCargoReportIntrvl, "rfid.in.range.update.intrvl", TypeUint32, 1, 0, AttrSave, "30"},

		{KeyCmdSaveProps, "cmd.save.props", TypeString, 1, 0, AttrWriteOnly, ""},
		{KeyCmdReset, "cmd.reset", TypeString, 1, 0, AttrWriteOnly, ""},

		{KeyStateProtocol, "state.protocol", TypeUint32, 1, 0, AttrReadOnly, "0"},
		{KeyStateFirmware, "state.firmware", TypeString, 1, 0, AttrReadOnly, ""},
		{KeyStateSerial, "state.serial", TypeString, 1, 0, AttrReadOnly, ""},
		{KeyStateUniqueID, "state.unique.id", TypeBinary, 1, 0, AttrReadOnly | AttrSave, ""},
		{KeyStateAccountID, "state.account.id", TypeString, 1, 0, AttrSave, ""},
		{KeyStateDeviceID, "state.device.id", TypeString, 1, 0, AttrSave, ""},
		{KeyStateTime, "state.time", TypeUint32, 1, 0, AttrReadOnly, "0"},
		{KeyStateRTSCheck, "state.rts.check", TypeUint32, 2, 0, AttrSave, "1,1"},
		{KeyStateIboxEnable, "state.ibox.enable", TypeUint8, 1, 0, AttrSave, "1"},
		{KeyStateAliveIntrvl, "state.alive.intrvl", TypeUint32, 1, 0, AttrSave, "30"},

		{KeyCommSpeakFirst, "comm.speak.first", TypeUint8, 1, 0, AttrSave, "1"},
		{KeyCommFirstBrief, "comm.first.brief", TypeUint8, 1, 0, AttrSave, "0"},
		{KeyCommMTU, "comm.mtu", TypeUint32, 1, 0, AttrSave, "1024"},
		{KeyCommUDPTimer, "comm.udp.timer", TypeUint32, 2, 0, AttrSave, "20,3"},
		{KeyCommHostB, "comm.host.b", TypeString, 1, 0, AttrSave, ""},
		{KeyCommPortB, "comm.port.b", TypeUint32, 1, 0, AttrSave, "31000"},
		{KeyCommHost, "comm.host", TypeString, 1, 0, AttrSave, ""},
		{KeyCommPort, "comm.port", TypeUint32, 1, 0, AttrSave, "31000"},
	}
}
