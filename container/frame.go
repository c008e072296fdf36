// SPDX-License-Identifier: MIT

package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Frame layout:
//
//	[0:5)   magic "LVCOV"
//	[5]     frame version
//	[6]     Compression tag
//	[7:15)  uncompressed payload length, big-endian uint64
//	[15:]   payload: CBOR wireFile, compressed per tag
const (
	frameMagic   = "LVCOV"
	frameVersion = 1
	frameHeadLen = len(frameMagic) + 2 + 8
)

type wireSection struct {
	Name   string      `cbor:"1,keyasint"`
	Header []wireEntry `cbor:"2,keyasint,omitempty"`
	Body   []byte      `cbor:"3,keyasint"`
}

type wireFile struct {
	Sections []wireSection `cbor:"1,keyasint"`
}

func encodeFrame(sections []encodedSection, c Compression) ([]byte, Compression, error) {
	wf := wireFile{Sections: make([]wireSection, len(sections))}
	for k, s := range sections {
		wf.Sections[k] = wireSection{Name: s.name, Header: toWireEntries(s.header), Body: s.body}
	}
	raw, err := encMode.Marshal(wf)
	if err != nil {
		return nil, 0, fmt.Errorf("encode frame: %w", err)
	}
	payload, used, err := compress(c, raw)
	if err != nil {
		return nil, 0, err
	}

	out := make([]byte, frameHeadLen, frameHeadLen+len(payload))
	copy(out, frameMagic)
	out[5] = frameVersion
	out[6] = byte(used)
	binary.BigEndian.PutUint64(out[7:frameHeadLen], uint64(len(raw)))

	return append(out, payload...), used, nil
}

func decodeFrame(data []byte) ([]encodedSection, Compression, error) {
	if len(data) < frameHeadLen || !bytes.HasPrefix(data, []byte(frameMagic)) {
		return nil, 0, fmt.Errorf("frame header: %w", ErrUnknownFormat)
	}
	if data[5] != frameVersion {
		return nil, 0, fmt.Errorf("frame version %d: %w", data[5], ErrUnknownFormat)
	}
	c := Compression(data[6])
	rawLen := binary.BigEndian.Uint64(data[7:frameHeadLen])
	if rawLen > maxPayload {
		return nil, 0, fmt.Errorf("frame length %d: %w", rawLen, ErrCorrupt)
	}
	raw, err := decompress(c, data[frameHeadLen:], int(rawLen))
	if err != nil {
		return nil, 0, err
	}

	var wf wireFile
	if err = decMode.Unmarshal(raw, &wf); err != nil {
		return nil, 0, fmt.Errorf("decode frame: %v: %w", err, ErrCorrupt)
	}
	out := make([]encodedSection, len(wf.Sections))
	for k, ws := range wf.Sections {
		es := encodedSection{name: ws.Name, body: ws.Body}
		for _, e := range ws.Header {
			es.header = append(es.header, tableEntry(e))
		}
		out[k] = es
	}

	return out, c, nil
}
