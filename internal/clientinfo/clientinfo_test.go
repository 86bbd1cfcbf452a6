package clientinfo

import (
	"net/http/httptest"
	"testing"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xRealIP    string
		remoteAddr string
		want       string
	}{
		{name: "forwarded-for single", xff: "203.0.113.7", remoteAddr: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "forwarded-for chain", xff: "203.0.113.7, 70.41.3.18", remoteAddr: "10.0.0.1:1234", want: "203.0.113.7"},
		{name: "real-ip fallback", xRealIP: "198.51.100.2", remoteAddr: "10.0.0.1:1234", want: "198.51.100.2"},
		{name: "connection fallback", remoteAddr: "192.0.2.4:5678", want: "192.0.2.4"},
		{name: "forwarded-for wins over real-ip", xff: "203.0.113.7", xRealIP: "198.51.100.2", remoteAddr: "10.0.0.1:1", want: "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/abc", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				r.Header.Set("X-Real-IP", tt.xRealIP)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want models.DeviceClass
	}{
		{
			name: "googlebot",
			ua:   "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			want: models.DeviceBot,
		},
		{
			name: "iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			want: models.DeviceMobile,
		},
		{
			name: "ipad",
			ua:   "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			want: models.DeviceTablet,
		},
		{
			name: "smart tv",
			ua:   "Mozilla/5.0 (SMART-TV; Linux; Tizen 6.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/76.0.3809.146 TV Safari/537.36",
			want: models.DeviceTV,
		},
		{
			name: "desktop chrome",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			want: models.DeviceDesktop,
		},
		{name: "empty", ua: "", want: models.DeviceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDevice(tt.ua))
		})
	}
}

func TestReferrerOrigin(t *testing.T) {
	tests := []struct {
		name     string
		referrer string
		want     string
	}{
		{name: "full url", referrer: "https://news.ycombinator.com/item?id=1", want: "https://news.ycombinator.com"},
		{name: "origin only", referrer: "http://example.com", want: "http://example.com"},
		{name: "empty", referrer: "", want: ""},
		{name: "garbage", referrer: "::not-a-url::", want: ""},
		{name: "schemeless", referrer: "example.com/page", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferrerOrigin(tt.referrer))
		})
	}
}

func TestMaskIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want string
	}{
		{name: "ipv4", ip: "203.0.113.74", want: "203.0.x.x"},
		{name: "garbage", ip: "nope", want: "x.x.x.x"},
		{name: "empty", ip: "", want: "x.x.x.x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskIP(tt.ip))
		})
	}

	// Для IPv6 достаточно что хвост замаскирован, а начало сохранено.
	masked := MaskIP("2001:db8:85a3:8d3:1319:8a2e:370:7348")
	assert.Contains(t, masked, ":x:x:x:x")
	assert.Contains(t, masked, "2001")
}
