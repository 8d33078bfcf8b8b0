package vm

func opLt(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opGt(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opSlt(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opSgt(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opEq(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil
}

func opIsZero(c *Computation) error {
	x := c.Stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil
}

func opAnd(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.And(&x, y)
	return nil
}

func opOr(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Or(&x, y)
	return nil
}

func opXor(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Xor(&x, y)
	return nil
}

func opNot(c *Computation) error {
	x := c.Stack.Peek()
	x.Not(x)
	return nil
}

func opByte(c *Computation) error {
	th, val := c.Stack.Pop(), c.Stack.Peek()
	val.Byte(&th)
	return nil
}

func opSHL(c *Computation) error {
	shift, value := c.Stack.Pop(), c.Stack.Peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil
}

func opSHR(c *Computation) error {
	shift, value := c.Stack.Pop(), c.Stack.Peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil
}

func opSAR(c *Computation) error {
	shift, value := c.Stack.Pop(), c.Stack.Peek()
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil
}
