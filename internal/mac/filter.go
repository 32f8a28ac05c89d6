// Package mac implements the subnet and link-budget filter applied to
// every received frame before it is accepted by the session layer.
package mac

// PHYMAC carries the physical/MAC layer settings the filter needs: the
// configured link-quality limit and a callback to read the instantaneous
// RSSI from the radio driver.
type PHYMAC struct {
	LinkQualLimit int8
	RSSIdBm       func() int8
}

// LinkLoss computes the estimated path loss from a received frame's
// quality byte (rxq[1]) and the current RSSI reading:
// linkloss = ((rxq[1] >> 1) & 0x3F) - 40 - rssi_dbm().
func LinkLoss(rxq1 uint8, rssiDbm int8) int {
	encodedQuality := int((rxq1 >> 1) & 0x3F)
	return encodedQuality - 40 - int(rssiDbm)
}

// PassesLinkBudget reports whether the estimated link loss is within the
// configured limit.
func (p PHYMAC) PassesLinkBudget(rxq1 uint8) bool {
	rssi := int8(0)
	if p.RSSIdBm != nil {
		rssi = p.RSSIdBm()
	}
	return LinkLoss(rxq1, rssi) <= int(p.LinkQualLimit)
}

// PassesSubnet reports whether a frame's subnet byte (rxq[2]) is
// addressed to this device's configured subnet. The upper nibble of the
// frame subnet must be the broadcast wildcard 0xF or match the device's
// upper nibble exactly; the lower nibble must match under the device's
// lower-nibble mask.
func PassesSubnet(frameSubnet, deviceSubnet uint8) bool {
	frameHi := frameSubnet & 0xF0
	deviceHi := deviceSubnet & 0xF0
	if frameHi != 0xF0 && frameHi != deviceHi {
		return false
	}

	deviceLo := deviceSubnet & 0x0F
	frameLo := frameSubnet & 0x0F
	return (frameLo & deviceLo) == deviceLo
}

// Accept runs both the link-budget and subnet checks, matching
// sub_mac_filter's combined pass/fail verdict.
func (p PHYMAC) Accept(rxq1, rxq2, deviceSubnet uint8) bool {
	return p.PassesLinkBudget(rxq1) && PassesSubnet(rxq2, deviceSubnet)
}
