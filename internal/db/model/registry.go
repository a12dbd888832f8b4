package model

import (
	"fmt"
	"reflect"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

var (
	tUint64  = reflect.TypeOf(uint64(0))
	tAddress = reflect.TypeOf(types.Address{})
)

// Registry returns the bson registry used for every model document.
// Token amounts are stored as decimal strings because BSON has no unsigned 64-bit
// type and saturated volumes do not fit into int64. Addresses are stored in base58.
func Registry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tUint64, bsoncodec.ValueEncoderFunc(encodeUint64))
	reg.RegisterTypeDecoder(tUint64, bsoncodec.ValueDecoderFunc(decodeUint64))
	reg.RegisterTypeEncoder(tAddress, bsoncodec.ValueEncoderFunc(encodeAddress))
	reg.RegisterTypeDecoder(tAddress, bsoncodec.ValueDecoderFunc(decodeAddress))
	return reg
}

func encodeUint64(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tUint64 {
		return bsoncodec.ValueEncoderError{Name: "Uint64EncodeValue", Types: []reflect.Type{tUint64}, Received: val}
	}
	return vw.WriteString(strconv.FormatUint(val.Uint(), 10))
}

func decodeUint64(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tUint64 {
		return bsoncodec.ValueDecoderError{Name: "Uint64DecodeValue", Types: []reflect.Type{tUint64}, Received: val}
	}

	switch vr.Type() {
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		val.SetUint(u)
	case bsontype.Int64:
		i, err := vr.ReadInt64()
		if err != nil {
			return err
		}
		if i < 0 {
			return fmt.Errorf("negative amount %d", i)
		}
		val.SetUint(uint64(i))
	case bsontype.Int32:
		i, err := vr.ReadInt32()
		if err != nil {
			return err
		}
		if i < 0 {
			return fmt.Errorf("negative amount %d", i)
		}
		val.SetUint(uint64(i))
	default:
		return fmt.Errorf("cannot decode %v into an amount", vr.Type())
	}
	return nil
}

func encodeAddress(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tAddress {
		return bsoncodec.ValueEncoderError{Name: "AddressEncodeValue", Types: []reflect.Type{tAddress}, Received: val}
	}
	addr := val.Interface().(types.Address)
	return vw.WriteString(addr.String())
}

func decodeAddress(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tAddress {
		return bsoncodec.ValueDecoderError{Name: "AddressDecodeValue", Types: []reflect.Type{tAddress}, Received: val}
	}
	s, err := vr.ReadString()
	if err != nil {
		return err
	}
	addr, err := types.ParseAddress(s)
	if err != nil {
		return err
	}
	val.Set(reflect.ValueOf(addr))
	return nil
}
