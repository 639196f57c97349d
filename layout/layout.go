package layout

type Dimension struct {
	Lines   int
	Columns int
}

func DimensionOf(rg Range) Dimension {
	return Dimension{
		Lines:   rg.Height(),
		Columns: rg.Width(),
	}
}

func (d Dimension) Max(other Dimension) Dimension {
	if other.Lines > d.Lines {
		d.Lines = other.Lines
	}
	if other.Columns > d.Columns {
		d.Columns = other.Columns
	}
	return d
}
