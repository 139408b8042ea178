package serial

import "fmt"

// LineRate is one of the standard UART speeds the agent is allowed to
// configure a device for.
type LineRate int

// Supported line rates, 1200 through 115200 plus 921600 (the teacher's
// termios constants already carry B921600 unconditionally on Linux, so
// no platform guard is required here).
const (
	Rate1200   LineRate = 1200
	Rate2400   LineRate = 2400
	Rate4800   LineRate = 4800
	Rate9600   LineRate = 9600
	Rate19200  LineRate = 19200
	Rate38400  LineRate = 38400
	Rate57600  LineRate = 57600
	Rate115200 LineRate = 115200
	Rate921600 LineRate = 921600
)

func cflagForRate(rate LineRate) (CFlag, error) {
	switch rate {
	case Rate1200:
		return B1200, nil
	case Rate2400:
		return B2400, nil
	case Rate4800:
		return B4800, nil
	case Rate9600:
		return B9600, nil
	case Rate19200:
		return B19200, nil
	case Rate38400:
		return B38400, nil
	case Rate57600:
		return B57600, nil
	case Rate115200:
		return B115200, nil
	case Rate921600:
		return B921600, nil
	default:
		return 0, fmt.Errorf("serial: unsupported line rate %d", rate)
	}
}

// OpenBinary opens device in raw mode: no translation, canonical
// processing, echo or signal generation, with the given VMIN and a
// fixed ~100ms VTIME quantum. hwFlow enables RTS/CTS flow control.
func OpenBinary(device string, rate LineRate, vmin int, hwFlow bool) (*Port, error) {
	p, err := Open(device, NewOptions())
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}
	saved, err := p.GetAttr()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("serial: get attrs %s: %w", device, err)
	}
	speed, err := cflagForRate(rate)
	if err != nil {
		p.Close()
		return nil, err
	}

	attrs := *saved
	attrs.MakeRaw()
	attrs.SetSpeed(speed)
	attrs.Cflag |= CREAD | CLOCAL
	if hwFlow {
		attrs.Cflag |= CRTSCTS
	} else {
		attrs.Cflag &^= CRTSCTS
	}
	if vmin < 0 {
		vmin = 0
	}
	if vmin > 255 {
		vmin = 255
	}
	attrs.Cc[VMIN] = byte(vmin)
	attrs.Cc[VTIME] = 1

	if err := p.SetAttr(TCSANOW, &attrs); err != nil {
		p.Close()
		return nil, fmt.Errorf("serial: set attrs %s: %w", device, err)
	}
	p.saved = saved
	return p, nil
}

// OpenText opens device in canonical line-buffered mode with IGNCR so
// a CRLF line ending resolves to a single delimiter.
func OpenText(device string, rate LineRate) (*Port, error) {
	p, err := Open(device, NewOptions())
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}
	saved, err := p.GetAttr()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("serial: get attrs %s: %w", device, err)
	}
	speed, err := cflagForRate(rate)
	if err != nil {
		p.Close()
		return nil, err
	}

	attrs := *saved
	attrs.Iflag |= IGNCR
	attrs.Iflag &^= ICRNL
	attrs.Oflag &^= OPOST
	attrs.Lflag |= ICANON
	attrs.Lflag &^= ECHO | ECHOE | ISIG | IEXTEN
	attrs.Cflag &^= CSIZE | PARENB
	attrs.Cflag |= CS8 | CREAD | CLOCAL
	attrs.SetSpeed(speed)

	if err := p.SetAttr(TCSANOW, &attrs); err != nil {
		p.Close()
		return nil, fmt.Errorf("serial: set attrs %s: %w", device, err)
	}
	p.saved = saved
	return p, nil
}

// Restore re-applies the line discipline captured at open time. Close
// calls it automatically; it is exported so callers needing to toggle
// modes temporarily can revert without a full reopen.
func (p *Port) Restore() error {
	if p.saved == nil {
		return nil
	}
	return p.SetAttr(TCSANOW, p.saved)
}
