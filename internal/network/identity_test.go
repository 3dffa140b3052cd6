// internal/network/identity_test.go
package network

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
)

const wlanConnected = `
There is 1 interface on the system:

    Name                   : Wi-Fi
    Description            : Intel(R) Wi-Fi 6 AX201 160MHz
    GUID                   : 12345678-90ab-cdef-1234-567890abcdef
    Physical address       : aa:bb:cc:dd:ee:ff
    State                  : connected
    SSID                   : BTBusiness-ABC
    BSSID                  : 11:22:33:44:55:66
    Network type           : Infrastructure
    Radio type             : 802.11ax
    Authentication         : WPA2-Personal
    Cipher                 : CCMP
    Connection mode        : Profile
    Channel                : 44
    Receive rate (Mbps)    : 573.5
    Transmit rate (Mbps)   : 573.5
    Signal                 : 88%
    Profile                : BTBusiness-ABC

    Hosted network status  : Not available
`

const wlanDisconnected = `
There is 1 interface on the system:

    Name                   : Wi-Fi
    Description            : Intel(R) Wi-Fi 6 AX201 160MHz
    GUID                   : 12345678-90ab-cdef-1234-567890abcdef
    Physical address       : aa:bb:cc:dd:ee:ff
    State                  : disconnected
    Radio status           : Hardware On
                             Software On

    Hosted network status  : Not configured
`

func TestParseWlanProfileConnected(t *testing.T) {
    assert.Equal(t, "BTBusiness-ABC", ParseWlanProfile(wlanConnected))
}

func TestParseWlanProfileDisconnected(t *testing.T) {
    assert.Equal(t, "", ParseWlanProfile(wlanDisconnected))
}

func TestParseWlanProfileEmptyOutput(t *testing.T) {
    assert.Equal(t, "", ParseWlanProfile(""))
}

func TestParseWlanProfileNameWithSpaces(t *testing.T) {
    output := "    Profile                : Cafe Guest WiFi   \n"
    assert.Equal(t, "Cafe Guest WiFi", ParseWlanProfile(output))
}

func TestStaticProvider(t *testing.T) {
    provider := &StaticProvider{Name: "OfficeLAN"}
    name, err := provider.CurrentNetwork(context.Background())
    assert.NoError(t, err)
    assert.Equal(t, "OfficeLAN", name)
}
