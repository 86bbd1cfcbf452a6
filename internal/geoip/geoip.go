// Package geoip оборачивает базу MaxMind. Резолвер безопасен при нулевом
// ресивере: без базы геолокация просто не заполняется.
package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Location страна и город посетителя. Пустые значения допустимы.
type Location struct {
	Country string
	City    string
}

type Resolver struct {
	reader *geoip2.Reader
}

// New открывает mmdb базу по указанному пути.
func New(dbPath string) (*Resolver, error) {
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", dbPath, err)
	}
	return &Resolver{reader: reader}, nil
}

// Lookup возвращает локацию по IP. Любой сбой (нет базы, кривой IP,
// адрес не найден) дает пустую локацию — наружу ошибки не выходят.
func (r *Resolver) Lookup(ip string) Location {
	if r == nil || r.reader == nil {
		return Location{}
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}
	}
	record, err := r.reader.City(parsed)
	if err != nil {
		return Location{}
	}
	return Location{
		Country: record.Country.Names["en"],
		City:    record.City.Names["en"],
	}
}

func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
