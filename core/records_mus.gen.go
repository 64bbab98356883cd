// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicevΔuMΣkgtQ0eKfFCYKQNx0AΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var VectorMetadataMUS = vectorMetadataMUS{}

type vectorMetadataMUS struct{}

func (s vectorMetadataMUS) Marshal(v VectorMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.Title, bs)
	n += ord.String.Marshal(v.Company, bs[n:])
	n += ord.String.Marshal(v.Location, bs[n:])
	return n + ord.String.Marshal(v.URL, bs[n:])
}

func (s vectorMetadataMUS) Unmarshal(bs []byte) (v VectorMetadata, n int, err error) {
	v.Title, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Company, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Location, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorMetadataMUS) Size(v VectorMetadata) (size int) {
	size = ord.String.Size(v.Title)
	size += ord.String.Size(v.Company)
	size += ord.String.Size(v.Location)
	return size + ord.String.Size(v.URL)
}

func (s vectorMetadataMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var VectorRecordMUS = vectorRecordMUS{}

type vectorRecordMUS struct{}

func (s vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += slicevΔuMΣkgtQ0eKfFCYKQNx0AΞΞ.Marshal(v.Values, bs[n:])
	return n + VectorMetadataMUS.Marshal(v.Metadata, bs[n:])
}

func (s vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Values, n1, err = slicevΔuMΣkgtQ0eKfFCYKQNx0AΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = VectorMetadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = ord.String.Size(v.ID)
	size += slicevΔuMΣkgtQ0eKfFCYKQNx0AΞΞ.Size(v.Values)
	return size + VectorMetadataMUS.Size(v.Metadata)
}

func (s vectorRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = slicevΔuMΣkgtQ0eKfFCYKQNx0AΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = VectorMetadataMUS.Skip(bs[n:])
	n += n1
	return
}
