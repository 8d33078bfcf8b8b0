package vm

func opAdd(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Add(&x, y)
	return nil
}

func opMul(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Mul(&x, y)
	return nil
}

func opSub(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Sub(&x, y)
	return nil
}

func opDiv(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Div(&x, y)
	return nil
}

func opSdiv(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.SDiv(&x, y)
	return nil
}

func opMod(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.Mod(&x, y)
	return nil
}

func opSmod(c *Computation) error {
	x, y := c.Stack.Pop(), c.Stack.Peek()
	y.SMod(&x, y)
	return nil
}

func opAddmod(c *Computation) error {
	x, y, z := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Peek()
	z.AddMod(&x, &y, z)
	return nil
}

func opMulmod(c *Computation) error {
	x, y, z := c.Stack.Pop(), c.Stack.Pop(), c.Stack.Peek()
	z.MulMod(&x, &y, z)
	return nil
}

func opExp(c *Computation) error {
	base, exponent := c.Stack.Pop(), c.Stack.Peek()
	exponent.Exp(&base, exponent)
	return nil
}

// opSignExtend implements SIGNEXTEND: sign-extends the low (b+1) bytes
// of x, treating byte b (0-indexed from the low end) as the sign byte.
func opSignExtend(c *Computation) error {
	back, num := c.Stack.Pop(), c.Stack.Peek()
	num.ExtendSign(num, &back)
	return nil
}
