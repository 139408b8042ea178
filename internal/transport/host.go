package transport

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ositech/dmtp-agent/internal/property"
)

// endpoint is a resolved host/port pair cached on a transport so
// repeated Open calls do not re-read the property store, matching
// socketUDP_Reset/socketTCP_Reset caching the resolved address on the
// socket structure until Reset(urlID) is called again.
type endpoint struct {
	host string
	port int
}

// resolveEndpoint reads PROP_COMM_HOST/PORT (urlID==0, primary) or
// PROP_COMM_HOST_B/PORT_B (urlID!=0, backup) from the store. A host
// shorter than three characters, or a non-positive port, is "not
// configured" per the grounding source's check in both
// socketUDP_Reset and socketTCP_Reset ("host == NULL || strlen(host)
// < 3 || port <= 0"), logged at error level (critical, in the
// original) and reported as HostInvalid rather than attempted.
func resolveEndpoint(store *property.Store, urlID int) (endpoint, error) {
	var hostKey, portKey property.Key
	if urlID == 0 {
		hostKey, portKey = property.KeyCommHost, property.KeyCommPort
	} else {
		hostKey, portKey = property.KeyCommHostB, property.KeyCommPortB
	}
	host := store.GetString(hostKey, "")
	port := int(store.GetUint32(portKey, 0, 0))
	if len(host) < 3 || port <= 0 {
		logrus.Errorf("transport: host/port not configured for url %d (host=%q port=%d)", urlID, host, port)
		return endpoint{}, newErr("reset", HostInvalid, fmt.Errorf("host/port not configured"))
	}
	return endpoint{host: host, port: port}, nil
}
