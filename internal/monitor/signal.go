package monitor

import (
	"fmt"
	"os"
	"unsafe"

	ioctl "github.com/daedaluz/goioctl"
)

// qmiGetMEID is QMI_GET_MEID_IOCTL from get_signl_strength.c /
// get_firmware_info.c: 0x8BE0 + 3.
const qmiGetMEID = uintptr(0x8BE0 + 3)

const meidBufLen = 16

// SignalFIFOPath and FirmwareFIFOPath match SIGNL_STRENGTH_FIFO and
// SIGNL_FIRMWARE_FIFO from the grounding sources exactly.
const (
	SignalFIFOPath   = "/tmp/cell_signl_strength"
	FirmwareFIFOPath = "/tmp/cell_firmware_info"
)

// qmiMEIDFunc is qmiMEID behind a variable so tests can substitute a
// fake without a real QMI character device.
var qmiMEIDFunc = qmiMEID

// qmiMEID opens the QMI character device and issues the MEID ioctl,
// the step both get_signl_strength.c's CheckSignalStrength and
// get_firmware_info.c's CheckFirmware perform before talking to the
// (external, out-of-scope) Gobi connection manager.
func qmiMEID(qmiDevice string) ([meidBufLen]byte, error) {
	var meid [meidBufLen]byte
	f, err := os.OpenFile(qmiDevice, os.O_RDWR, 0)
	if err != nil {
		return meid, fmt.Errorf("monitor: open %s: %w", qmiDevice, err)
	}
	defer f.Close()
	if err := ioctl.Ioctl(f.Fd(), qmiGetMEID, uintptr(unsafe.Pointer(&meid[0]))); err != nil {
		return meid, fmt.Errorf("monitor: MEID ioctl on %s: %w", qmiDevice, err)
	}
	return meid, nil
}

// RunSignalSnapshot is the one-shot call external_source/get_signl_strength.c
// performs: open the QMI device, fetch the MEID, and (in the original)
// hand the MEID to the Gobi connection manager to read a signal
// strength byte which is then written to fifoPath. The Gobi
// connection manager API itself is an external collaborator this core
// does not implement (spec.md's scope stops at the iBox/transport/
// property/watchdog core), so this function stops at the steps the
// core genuinely owns: open device, ioctl, and report — callers that
// need the connection-manager round trip supply the resulting byte.
func RunSignalSnapshot(qmiDevice, fifoPath string, sample func(meid [meidBufLen]byte) (int8, error)) error {
	meid, err := qmiMEIDFunc(qmiDevice)
	if err != nil {
		return err
	}
	level, err := sample(meid)
	if err != nil {
		return fmt.Errorf("monitor: signal strength sample: %w", err)
	}
	f, err := os.OpenFile(fifoPath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("monitor: open fifo %s: %w", fifoPath, err)
	}
	defer f.Close()
	_, err = f.Write([]byte{byte(level)})
	return err
}

// RunFirmwareSnapshot is the analogous one-shot call from
// get_firmware_info.c's CheckFirmware: fetch the MEID, then (via the
// same out-of-scope connection manager) the serving network's name,
// written as UTF-8 to fifoPath instead of the signal-strength byte.
// Dropped from the distilled spec, recovered here from
// original_source/ since it is the same shape of call as the signal
// snapshot and fits the same external-collaborator contract.
func RunFirmwareSnapshot(qmiDevice, fifoPath string, networkName func(meid [meidBufLen]byte) (string, error)) error {
	meid, err := qmiMEIDFunc(qmiDevice)
	if err != nil {
		return err
	}
	name, err := networkName(meid)
	if err != nil {
		return fmt.Errorf("monitor: firmware/network name sample: %w", err)
	}
	f, err := os.OpenFile(fifoPath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("monitor: open fifo %s: %w", fifoPath, err)
	}
	defer f.Close()
	_, err = f.Write([]byte(name))
	return err
}
