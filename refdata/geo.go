package refdata

import "math"

const earthRadiusKM = 6371.0088

// Distance 计算两个地区编码之间的大圆距离（haversine，公里）。
// 任一编码未知时返回 ok=false，由调用方决定如何上报。
func (t *Tables) Distance(loc1, loc2 string) (float64, bool) {
	c1, ok := t.LookupCoord(loc1)
	if !ok {
		return 0, false
	}
	c2, ok := t.LookupCoord(loc2)
	if !ok {
		return 0, false
	}
	return haversine(c1, c2), true
}

func haversine(a, b Coord) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
