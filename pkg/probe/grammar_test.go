package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

const iwconfigOutput = `wlan0     IEEE 802.11  ESSID:"HomeNet 5G"
          Mode:Managed  Frequency:5.18 GHz  Access Point: 3C:84:6A:12:34:56
          Bit Rate=433.3 Mb/s   Tx-Power=22 dBm
          Retry short limit:7   RTS thr:off   Fragment thr:off
          Power Management:on
          Link Quality=56/70  Signal level=-54 dBm
          Rx invalid nwid:0  Rx invalid crypt:0  Rx invalid frag:0

lo        no wireless extensions.
`

const netshOutput = "\r\nThere is 1 interface on the system: \r\n\r\n" +
	"    Name                   : Wi-Fi\r\n" +
	"    Description            : Intel(R) Wi-Fi 6 AX201 160MHz\r\n" +
	"    State                  : connected\r\n" +
	"    SSID                   : Office Guest\r\n" +
	"    BSSID                  : 3c:84:6a:aa:bb:cc\r\n" +
	"    Network type           : Infrastructure\r\n" +
	"    Radio type             : 802.11ax\r\n" +
	"    Authentication         : WPA2-Personal\r\n" +
	"    Channel                : 44\r\n" +
	"    Signal                 : 87% \r\n"

const iwLinkOutput = `Connected to 3c:84:6a:12:34:56 (on wlp2s0)
	SSID: HomeNet
	freq: 2437
	RX: 1853431 bytes (9034 packets)
	TX: 336729 bytes (2055 packets)
	signal: -61 dBm
	rx bitrate: 144.4 MBit/s
`

const iwDevOutput = `phy#0
	Interface wlp2s0
		ifindex 3
		type managed
`

func TestParseNetworkInfoUnix(t *testing.T) {
	info := ParseNetworkInfo(PlatformUnix, iwconfigOutput)

	assert.Equal(t, "HomeNet 5G", info.SSID)
	assert.Equal(t, "3c:84:6a:12:34:56", info.BSSID)
	assert.Equal(t, "5.18 GHz", info.Frequency)

	signal, ok := info.Signal.Get()
	require.True(t, ok)
	assert.Equal(t, -54, signal)
}

func TestParseNetworkInfoUnixNotAssociated(t *testing.T) {
	text := `wlan0     IEEE 802.11  ESSID:off/any
          Mode:Managed  Access Point: Not-Associated   Tx-Power=22 dBm`

	info := ParseNetworkInfo(PlatformUnix, text)

	assert.Equal(t, core.UnknownNetworkInfo(), info)
}

func TestParseNetworkInfoWindows(t *testing.T) {
	info := ParseNetworkInfo(PlatformWindows, netshOutput)

	assert.Equal(t, "Office Guest", info.SSID, "SSID must not be taken from the BSSID line")
	assert.Equal(t, "3c:84:6a:aa:bb:cc", info.BSSID)
	assert.Equal(t, "802.11ax", info.Frequency)

	signal, ok := info.Signal.Get()
	require.True(t, ok)
	assert.Equal(t, 87, signal)
}

func TestParseNetworkInfoPartial(t *testing.T) {
	info := ParseNetworkInfo(PlatformUnix, `wlan0  ESSID:"Cafe"`)

	assert.Equal(t, "Cafe", info.SSID)
	assert.Equal(t, core.Unknown, info.BSSID)
	assert.Equal(t, core.Unknown, info.Frequency)
	assert.False(t, info.Signal.Valid())
}

func TestParseNetworkInfoEmptyOrUnknown(t *testing.T) {
	for _, platform := range []Platform{PlatformUnix, PlatformWindows, PlatformUnknown} {
		assert.Equal(t, core.UnknownNetworkInfo(), ParseNetworkInfo(platform, ""), platform.String())
		assert.Equal(t, core.UnknownNetworkInfo(), ParseNetworkInfo(platform, "garbage\nlines\n"), platform.String())
	}

	assert.Equal(t, core.UnknownNetworkInfo(), ParseNetworkInfo(PlatformUnknown, iwconfigOutput))
}

func TestParseIwLink(t *testing.T) {
	info := ParseIwLink(iwLinkOutput)

	assert.Equal(t, "HomeNet", info.SSID)
	assert.Equal(t, "3c:84:6a:12:34:56", info.BSSID)
	assert.Equal(t, "2.437 GHz", info.Frequency)

	signal, ok := info.Signal.Get()
	require.True(t, ok)
	assert.Equal(t, -61, signal)

	assert.Equal(t, core.UnknownNetworkInfo(), ParseIwLink("Not connected.\n"))
}

func TestParseIwInterfaces(t *testing.T) {
	assert.Equal(t, []string{"wlp2s0"}, ParseIwInterfaces(iwDevOutput))
	assert.Empty(t, ParseIwInterfaces(""))
}

func TestParseLatency(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		text     string
		want     float64
	}{
		{
			name:     "linux",
			platform: PlatformUnix,
			text: "PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.\n" +
				"64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=14.2 ms\n\n" +
				"--- 8.8.8.8 ping statistics ---\n" +
				"1 packets transmitted, 1 received, 0% packet loss, time 0ms\n" +
				"rtt min/avg/max/mdev = 14.213/14.213/14.213/0.000 ms\n",
			want: 14.2,
		},
		{
			name:     "unknown platform uses unix grammar",
			platform: PlatformUnknown,
			text:     "64 bytes from 8.8.8.8: icmp_seq=0 ttl=117 time=9.871 ms\n",
			want:     9.871,
		},
		{
			name:     "windows",
			platform: PlatformWindows,
			text: "\r\nPinging 8.8.8.8 with 32 bytes of data:\r\n" +
				"Reply from 8.8.8.8: bytes=32 time=23ms TTL=117\r\n\r\n" +
				"Ping statistics for 8.8.8.8:\r\n" +
				"    Packets: Sent = 1, Received = 1, Lost = 0 (0% loss),\r\n" +
				"Approximate round trip times in milli-seconds:\r\n" +
				"    Minimum = 23ms, Maximum = 23ms, Average = 23ms\r\n",
			want: 23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLatency(tt.platform, tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseLatencyFailure(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		text     string
	}{
		{"empty", PlatformUnix, ""},
		{"no reply", PlatformUnix, "1 packets transmitted, 0 received, 100% packet loss, time 0ms\n"},
		{"non numeric", PlatformUnix, "64 bytes from x: time=abc ms\n"},
		{"windows timeout", PlatformWindows, "Request timed out.\r\n    Packets: Sent = 1, Received = 0, Lost = 1 (100% loss),\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLatency(tt.platform, tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrParseFailure))
		})
	}
}

func TestPlatformOf(t *testing.T) {
	assert.Equal(t, PlatformUnix, PlatformOf("linux"))
	assert.Equal(t, PlatformWindows, PlatformOf("windows"))
	assert.Equal(t, PlatformUnknown, PlatformOf("darwin"))
	assert.Equal(t, PlatformUnknown, PlatformOf("plan9"))
}
