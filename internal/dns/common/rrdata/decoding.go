package rrdata

import (
	"fmt"

	"github.com/haukened/rr-authd/internal/dns/domain"
)

// Decode decodes a record value based on its type, from its binary representation.
func Decode(rrType domain.RRType, data []byte) (string, error) {
	switch rrType {
	case domain.RRTypeA: // 1
		return decodeAData(data)
	case domain.RRTypeNS: // 2
		return decodeNSData(data)
	case domain.RRTypeCNAME: // 5
		return decodeCNAMEData(data)
	case domain.RRTypeSOA: // 6
		return decodeSOAData(data)
	case domain.RRTypePTR: // 12
		return decodePTRData(data)
	case domain.RRTypeMX: // 15
		return decodeMXData(data)
	case domain.RRTypeTXT: // 16
		return decodeTXTData(data)
	case domain.RRTypeAAAA: // 28
		return decodeAAAAData(data)
	case domain.RRTypeLOC: // 29
		return decodeLOCData(data)
	case domain.RRTypeSRV: // 33
		return decodeSRVData(data)
	case domain.RRTypeOPT: // 41
		return "", fmt.Errorf("%s pseudo-records carry no presentation form", rrType)
	case domain.RRTypeDS: // 43
		return decodeDSData(data)
	case domain.RRTypeRRSIG: // 46
		return decodeRRSIGData(data)
	case domain.RRTypeNSEC: // 47
		return decodeNSECData(data)
	case domain.RRTypeDNSKEY: // 48
		return decodeDNSKEYData(data)
	case domain.RRTypeNSEC3: // 50
		return decodeNSEC3Data(data)
	case domain.RRTypeCAA: // 257
		return decodeCAAData(data)
	default:
		return string(data), nil
	}
}
