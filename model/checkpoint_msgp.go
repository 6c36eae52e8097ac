package model

import (
	"github.com/tinylib/msgp/msgp"
)

// EncodeMsg implements msgp.Encodable
func (r *Record) EncodeMsg(en *msgp.Writer) error {
	n := uint32(3)
	if r.Optimizer != nil {
		n++
	}
	if err := en.WriteMapHeader(n); err != nil {
		return err
	}
	if err := en.WriteString("weights"); err != nil {
		return err
	}
	if err := r.Weights.EncodeMsg(en); err != nil {
		return err
	}
	if err := en.WriteString("epoch"); err != nil {
		return err
	}
	if err := en.WriteInt64(int64(r.Epoch)); err != nil {
		return err
	}
	if err := en.WriteString("iterations"); err != nil {
		return err
	}
	if err := en.WriteInt64(int64(r.Iterations)); err != nil {
		return err
	}
	if r.Optimizer != nil {
		if err := en.WriteString("optimizer"); err != nil {
			return err
		}
		return r.Optimizer.EncodeMsg(en)
	}
	return nil
}

// DecodeMsg implements msgp.Decodable
func (r *Record) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	for ; sz > 0; sz-- {
		key, err := dc.ReadString()
		if err != nil {
			return err
		}
		switch key {
		case "weights":
			err = r.Weights.DecodeMsg(dc)
		case "epoch":
			var v int64
			v, err = dc.ReadInt64()
			r.Epoch = int(v)
		case "iterations":
			var v int64
			v, err = dc.ReadInt64()
			r.Iterations = int(v)
		case "optimizer":
			r.Optimizer = &OptimizerState{}
			err = r.Optimizer.DecodeMsg(dc)
		default:
			err = dc.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable, names are written in sorted order
func (p Params) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(uint32(len(p))); err != nil {
		return err
	}
	for _, k := range p.Names() {
		if err := en.WriteString(k); err != nil {
			return err
		}
		if err := p[k].EncodeMsg(en); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsg implements msgp.Decodable
func (p *Params) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	*p = make(Params, sz)
	for ; sz > 0; sz-- {
		k, err := dc.ReadString()
		if err != nil {
			return err
		}
		t := &Tensor{}
		if err = t.DecodeMsg(dc); err != nil {
			return err
		}
		(*p)[k] = t
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (t *Tensor) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(2); err != nil {
		return err
	}
	if err := en.WriteString("shape"); err != nil {
		return err
	}
	if err := en.WriteArrayHeader(uint32(len(t.Shape))); err != nil {
		return err
	}
	for _, x := range t.Shape {
		if err := en.WriteInt64(int64(x)); err != nil {
			return err
		}
	}
	if err := en.WriteString("data"); err != nil {
		return err
	}
	if err := en.WriteArrayHeader(uint32(len(t.Data))); err != nil {
		return err
	}
	for _, x := range t.Data {
		if err := en.WriteFloat64(x); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsg implements msgp.Decodable
func (t *Tensor) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	for ; sz > 0; sz-- {
		key, err := dc.ReadString()
		if err != nil {
			return err
		}
		switch key {
		case "shape":
			var n uint32
			if n, err = dc.ReadArrayHeader(); err != nil {
				return err
			}
			t.Shape = make([]int, n)
			for i := range t.Shape {
				var v int64
				if v, err = dc.ReadInt64(); err != nil {
					return err
				}
				t.Shape[i] = int(v)
			}
		case "data":
			var n uint32
			if n, err = dc.ReadArrayHeader(); err != nil {
				return err
			}
			t.Data = make([]float64, n)
			for i := range t.Data {
				if t.Data[i], err = dc.ReadFloat64(); err != nil {
					return err
				}
			}
		default:
			if err = dc.Skip(); err != nil {
				return err
			}
		}
	}
	n := 1
	for _, x := range t.Shape {
		n *= x
	}
	if n != len(t.Data) {
		return msgp.ArrayError{Wanted: uint32(n), Got: uint32(len(t.Data))}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable
func (s *OptimizerState) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(4); err != nil {
		return err
	}
	if err := en.WriteString("step"); err != nil {
		return err
	}
	if err := en.WriteInt64(int64(s.Step)); err != nil {
		return err
	}
	if err := en.WriteString("lr"); err != nil {
		return err
	}
	if err := en.WriteFloat64(s.LR); err != nil {
		return err
	}
	if err := en.WriteString("exp_avg"); err != nil {
		return err
	}
	if err := s.ExpAvg.EncodeMsg(en); err != nil {
		return err
	}
	if err := en.WriteString("exp_avg_sq"); err != nil {
		return err
	}
	return s.ExpAvgSq.EncodeMsg(en)
}

// DecodeMsg implements msgp.Decodable
func (s *OptimizerState) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	for ; sz > 0; sz-- {
		key, err := dc.ReadString()
		if err != nil {
			return err
		}
		switch key {
		case "step":
			var v int64
			v, err = dc.ReadInt64()
			s.Step = int(v)
		case "lr":
			s.LR, err = dc.ReadFloat64()
		case "exp_avg":
			err = s.ExpAvg.DecodeMsg(dc)
		case "exp_avg_sq":
			err = s.ExpAvgSq.DecodeMsg(dc)
		default:
			err = dc.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
