// Package clientinfo извлекает грубые метаданные посетителя из HTTP
// запроса: IP с учетом прокси, класс устройства, origin источника перехода.
package clientinfo

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/mileusna/useragent"
)

// tvSignatures сигнатуры ТВ-платформ, которые useragent не различает.
var tvSignatures = []string{
	"smart-tv", "smarttv", "googletv", "appletv", "hbbtv", "netcast",
	"crkey", "roku", "viera", "aquosbrowser", "bravia",
}

// ClientIP возвращает IP клиента по цепочке заголовков прокси:
// X-Forwarded-For (первый адрес) → X-Real-IP → адрес соединения.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// DetectDevice определяет класс устройства по user-agent. Порядок проверок
// фиксирован: бот прежде всего остального, затем mobile, tablet, tv;
// по умолчанию desktop, при пустой строке unknown.
func DetectDevice(rawUA string) models.DeviceClass {
	if strings.TrimSpace(rawUA) == "" {
		return models.DeviceUnknown
	}

	ua := useragent.Parse(rawUA)
	switch {
	case ua.Bot:
		return models.DeviceBot
	case ua.Mobile:
		return models.DeviceMobile
	case ua.Tablet:
		return models.DeviceTablet
	case isTV(rawUA):
		return models.DeviceTV
	default:
		return models.DeviceDesktop
	}
}

func isTV(rawUA string) bool {
	lower := strings.ToLower(rawUA)
	for _, sig := range tvSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// ReferrerOrigin сводит referrer к origin (scheme://host). Пустая строка
// для отсутствующего или не разбираемого значения.
func ReferrerOrigin(referrer string) string {
	if referrer == "" {
		return ""
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// MaskIP маскирует IP для выдачи наружу: у IPv4 скрываются последние два
// октета, у IPv6 — последние четыре группы. Неразбираемое значение
// заменяется целиком.
func MaskIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "x.x.x.x"
	}
	if v4 := parsed.To4(); v4 != nil {
		parts := strings.Split(v4.String(), ".")
		return parts[0] + "." + parts[1] + ".x.x"
	}
	groups := strings.Split(parsed.To16().String(), ":")
	// После нормализации через net.IP групп может быть меньше восьми
	// из за свертки нулей, маскируем хвост от того что есть.
	keep := len(groups) - 4
	if keep < 1 {
		keep = 1
	}
	return strings.Join(groups[:keep], ":") + ":x:x:x:x"
}
