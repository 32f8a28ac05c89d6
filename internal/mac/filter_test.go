package mac

import "testing"

func TestPassesSubnet_BoundaryScenario(t *testing.T) {
	// netconf.subnet = 0x5A (upper=0x50, lower=0x0A); rx[2]=0xF3.
	// upper(fr)=0xF0 -> allowed; mask = 0x03 & 0x0A = 0x02 != 0x0A -> fail.
	if PassesSubnet(0xF3, 0x5A) {
		t.Error("PassesSubnet(0xF3, 0x5A) = true, want false")
	}
}

func TestPassesSubnet_ExactMatch(t *testing.T) {
	if !PassesSubnet(0x5A, 0x5A) {
		t.Error("identical subnet bytes should pass")
	}
}

func TestPassesSubnet_BroadcastUpperWildcard(t *testing.T) {
	if !PassesSubnet(0xF0, 0x5A) {
		t.Error("upper nibble 0xF wildcard with zero lower mask should pass")
	}
}

func TestPassesSubnet_WrongUpperNibble(t *testing.T) {
	if PassesSubnet(0x3A, 0x5A) {
		t.Error("mismatched non-wildcard upper nibble should fail")
	}
}

func TestLinkLoss(t *testing.T) {
	// rxq[1] = 0x64 -> (0x64>>1)&0x3F = 0x32 = 50; rssi = -60 -> loss = 50-40-(-60) = 70
	got := LinkLoss(0x64, -60)
	if got != 70 {
		t.Errorf("LinkLoss() = %d, want 70", got)
	}
}

func TestPHYMAC_Accept(t *testing.T) {
	p := PHYMAC{
		LinkQualLimit: 80,
		RSSIdBm:       func() int8 { return -60 },
	}

	if !p.Accept(0x64, 0x5A, 0x5A) {
		t.Error("Accept() should pass with matching subnet and link within budget")
	}
	if p.Accept(0x64, 0xF3, 0x5A) {
		t.Error("Accept() should fail on subnet mismatch")
	}

	tight := PHYMAC{LinkQualLimit: 10, RSSIdBm: func() int8 { return -60 }}
	if tight.Accept(0x64, 0x5A, 0x5A) {
		t.Error("Accept() should fail when link loss exceeds the limit")
	}
}
