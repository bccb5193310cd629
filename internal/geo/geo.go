package geo

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Location 描述一次地理解析的结果，未命中的字段为 nil。
type Location struct {
	Country *string
	City    *string
}

// Resolver 把客户端地址解析为粗粒度地理位置。
// 实现必须是纯本地查询，不允许阻塞在网络上。
type Resolver interface {
	Lookup(address string) Location
	Close() error
}

// NormalizeAddress 去掉 IPv4 映射 IPv6 前缀（::ffff:），
// 使地理查询和访客哈希使用同一形式的地址。
func NormalizeAddress(address string) string {
	return strings.TrimPrefix(address, "::ffff:")
}

// MaxMindResolver 基于本地 MaxMind GeoLite2 数据库做查询。
type MaxMindResolver struct {
	reader *geoip2.Reader
}

// Open 打开 mmdb 数据库文件。
func Open(path string) (*MaxMindResolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &MaxMindResolver{reader: reader}, nil
}

// Lookup 返回国家 ISO 代码与英文城市名。
// 回环与内网地址查不到结果，返回空 Location，这是预期行为而非错误。
func (r *MaxMindResolver) Lookup(address string) Location {
	ip := net.ParseIP(NormalizeAddress(address))
	if ip == nil {
		return Location{}
	}

	record, err := r.reader.City(ip)
	if err != nil || record == nil {
		return Location{}
	}

	var loc Location
	if code := record.Country.IsoCode; code != "" {
		loc.Country = &code
	}
	if name := record.City.Names["en"]; name != "" {
		loc.City = &name
	}
	return loc
}

// Close 释放数据库句柄。
func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

// NoopResolver 在未配置地理数据库时使用，始终返回未解析。
type NoopResolver struct{}

// Lookup 恒定返回空结果。
func (NoopResolver) Lookup(string) Location {
	return Location{}
}

// Close 无资源可释放。
func (NoopResolver) Close() error {
	return nil
}
