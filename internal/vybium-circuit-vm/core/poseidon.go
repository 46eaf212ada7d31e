package core

import (
	"fmt"
	"math/big"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// Poseidon implements the Poseidon permutation and a duplex sponge over BaseField.
//
// Parameters follow the Poseidon paper: round constants are generated by the
// Grain LFSR and the MDS matrix is a Cauchy matrix, so nothing has to be shipped
// as precomputed tables. Width is always rate + 1 (capacity one).
type Poseidon struct {
	field  *Field
	params PoseidonParameters
	// Round constants and MDS matrix
	roundConstants [][]*FieldElement
	mdsMatrix      [][]*FieldElement
	// Capacity element distinguishing sponges of different rates
	domain *FieldElement
}

// PoseidonParameters represents the parameters for a specific Poseidon instance
type PoseidonParameters struct {
	FieldSize     int // n: Field size in bits
	Width         int // t: Width of permutation
	Rate          int // r: Rate (t - capacity)
	RoundsFull    int // RF: Number of full rounds
	RoundsPartial int // RP: Number of partial rounds
	Alpha         int // α: S-box power
}

// DefaultPoseidonParameters returns the parameters used for a sponge of the given rate.
// x^17 is the smallest power map that is a permutation of BaseField.
func DefaultPoseidonParameters(rate int) PoseidonParameters {
	return PoseidonParameters{
		FieldSize:     BaseField.SizeInBits(),
		Width:         rate + 1,
		Rate:          rate,
		RoundsFull:    8,
		RoundsPartial: 31,
		Alpha:         17,
	}
}

// NewPoseidon creates a Poseidon instance for the given rate
func NewPoseidon(rate int) (*Poseidon, error) {
	if rate < 1 {
		return nil, fmt.Errorf("poseidon rate must be positive, got %d", rate)
	}
	params := DefaultPoseidonParameters(rate)

	mds, err := generateMDSMatrix(BaseField, params.Width)
	if err != nil {
		return nil, fmt.Errorf("failed to generate MDS matrix: %w", err)
	}

	return &Poseidon{
		field:          BaseField,
		params:         params,
		roundConstants: generateRoundConstants(BaseField, params),
		mdsMatrix:      mds,
		domain:         domainElement(fmt.Sprintf("Poseidon%d", rate)),
	}, nil
}

// Rate returns the number of elements absorbed per permutation
func (p *Poseidon) Rate() int {
	return p.params.Rate
}

// Hash absorbs inputs and squeezes a single base field element.
// The input length is absorbed first so that inputs differing only by trailing zeros do not collide.
func (p *Poseidon) Hash(inputs []*FieldElement) *FieldElement {
	sponge := p.newSponge()
	sponge.Absorb([]*FieldElement{p.field.NewElementFromUint64(uint64(len(inputs)))})
	sponge.Absorb(inputs)
	return sponge.Squeeze(1)[0]
}

// HashToScalar hashes inputs and keeps the scalar field's data bits of the result
func (p *Poseidon) HashToScalar(inputs []*FieldElement) *FieldElement {
	out := p.Hash(inputs)
	bits := out.BitsLE()[:ScalarField.SizeInDataBits()]
	return ScalarField.FromBitsLE(bits)
}

// permutation applies the full Poseidon permutation in place
func (p *Poseidon) permutation(state []*FieldElement) {
	half := p.params.RoundsFull / 2
	round := 0

	for i := 0; i < half; i++ {
		p.fullRound(state, round)
		round++
	}
	for i := 0; i < p.params.RoundsPartial; i++ {
		p.partialRound(state, round)
		round++
	}
	for i := 0; i < half; i++ {
		p.fullRound(state, round)
		round++
	}
}

// fullRound applies a full round of Poseidon
func (p *Poseidon) fullRound(state []*FieldElement, round int) {
	for i := range state {
		state[i] = p.sbox(state[i].Add(p.roundConstants[round][i]))
	}
	p.applyMDSMatrix(state)
}

// partialRound applies the S-box to the first element only
func (p *Poseidon) partialRound(state []*FieldElement, round int) {
	for i := range state {
		state[i] = state[i].Add(p.roundConstants[round][i])
	}
	state[0] = p.sbox(state[0])
	p.applyMDSMatrix(state)
}

// sbox applies the S-box transformation x^α
func (p *Poseidon) sbox(x *FieldElement) *FieldElement {
	return x.Exp(big.NewInt(int64(p.params.Alpha)))
}

// applyMDSMatrix multiplies the state by the MDS matrix in place
func (p *Poseidon) applyMDSMatrix(state []*FieldElement) {
	next := make([]*FieldElement, len(state))
	for i := range state {
		acc := p.field.Zero()
		for j := range state {
			acc = acc.Add(state[j].Mul(p.mdsMatrix[i][j]))
		}
		next[i] = acc
	}
	copy(state, next)
}

// generateRoundConstants generates round constants using the Grain LFSR
func generateRoundConstants(field *Field, params PoseidonParameters) [][]*FieldElement {
	lfsr := NewGrainLFSR(params)

	totalRounds := params.RoundsFull + params.RoundsPartial
	constants := make([][]*FieldElement, totalRounds)
	for round := 0; round < totalRounds; round++ {
		constants[round] = make([]*FieldElement, params.Width)
		for i := 0; i < params.Width; i++ {
			constants[round][i] = lfsr.NextFieldElement(field)
		}
	}
	return constants
}

// generateMDSMatrix generates a Cauchy matrix, which is always MDS
func generateMDSMatrix(field *Field, width int) ([][]*FieldElement, error) {
	matrix := make([][]*FieldElement, width)
	for i := 0; i < width; i++ {
		matrix[i] = make([]*FieldElement, width)
		for j := 0; j < width; j++ {
			// M[i][j] = 1/(x_i + y_j)
			x := field.NewElementFromInt64(int64(i))
			y := field.NewElementFromInt64(int64(j + width))
			inv, err := x.Add(y).Inv()
			if err != nil {
				return nil, err
			}
			matrix[i][j] = inv
		}
	}
	return matrix, nil
}

// domainElement maps a domain string to a base field element
func domainElement(domain string) *FieldElement {
	digest := sha3.Sum256([]byte(domain))
	return BaseField.NewElement(new(big.Int).SetBytes(reverse(digest[:])))
}

// ============================================================================
// Grain LFSR
// ============================================================================

// GrainLFSR implements the Grain LFSR for parameter generation
type GrainLFSR struct {
	state [80]bool
}

// NewGrainLFSR creates a new Grain LFSR instance seeded from the parameters
func NewGrainLFSR(params PoseidonParameters) *GrainLFSR {
	g := &GrainLFSR{}

	// b0, b1: prime field
	g.state[0] = false
	g.state[1] = true
	// b2-b5: S-box type (non-inverse power map)
	// b6-b17: field size n
	g.setBits(6, 12, params.FieldSize)
	// b18-b29: width t
	g.setBits(18, 12, params.Width)
	// b30-b39: RF
	g.setBits(30, 10, params.RoundsFull)
	// b40-b49: RP
	g.setBits(40, 10, params.RoundsPartial)
	// b50-b79: set to 1
	for i := 50; i < 80; i++ {
		g.state[i] = true
	}

	// Discard first 160 bits
	for i := 0; i < 160; i++ {
		g.update()
	}
	return g
}

// setBits writes the n low bits of v big-endian at offset
func (g *GrainLFSR) setBits(offset, n, v int) {
	for i := 0; i < n; i++ {
		g.state[offset+i] = (v>>(n-1-i))&1 == 1
	}
}

// update shifts in b_{i+80} = b_{i+62} ⊕ b_{i+51} ⊕ b_{i+38} ⊕ b_{i+23} ⊕ b_{i+13} ⊕ b_i
func (g *GrainLFSR) update() bool {
	newBit := g.state[62] != g.state[51] != g.state[38] != g.state[23] != g.state[13] != g.state[0]
	copy(g.state[:79], g.state[1:])
	g.state[79] = newBit
	return newBit
}

// sampleBit samples bits in pairs: if the first bit is 1, output the second
func (g *GrainLFSR) sampleBit() bool {
	for {
		first := g.update()
		second := g.update()
		if first {
			return second
		}
	}
}

// NextFieldElement samples field elements by rejection until one is below the modulus
func (g *GrainLFSR) NextFieldElement(field *Field) *FieldElement {
	n := field.SizeInBits()
	for {
		value := new(big.Int)
		for i := n - 1; i >= 0; i-- {
			if g.sampleBit() {
				value.SetBit(value, i, 1)
			}
		}
		if value.Cmp(field.modulus) < 0 {
			return field.NewElement(value)
		}
	}
}

// ============================================================================
// Sponge
// ============================================================================

// PoseidonSponge implements the duplex sponge construction for Poseidon
type PoseidonSponge struct {
	hash     *Poseidon
	state    []*FieldElement
	absorbed int
}

func (p *Poseidon) newSponge() *PoseidonSponge {
	state := make([]*FieldElement, p.params.Width)
	state[0] = p.domain
	for i := 1; i < p.params.Width; i++ {
		state[i] = p.field.Zero()
	}
	return &PoseidonSponge{hash: p, state: state}
}

// Absorb adds inputs into the rate portion of the state, permuting when it is full
func (s *PoseidonSponge) Absorb(inputs []*FieldElement) {
	for _, input := range inputs {
		if s.absorbed == s.hash.params.Rate {
			s.hash.permutation(s.state)
			s.absorbed = 0
		}
		s.state[1+s.absorbed] = s.state[1+s.absorbed].Add(input)
		s.absorbed++
	}
}

// Squeeze permutes the state and reads rate elements at a time
func (s *PoseidonSponge) Squeeze(n int) []*FieldElement {
	out := make([]*FieldElement, 0, n)
	for len(out) < n {
		s.hash.permutation(s.state)
		for i := 0; i < s.hash.params.Rate && len(out) < n; i++ {
			out = append(out, s.state[1+i])
		}
	}
	return out
}

// ============================================================================
// Cache
// ============================================================================

// PoseidonCache memoizes Poseidon instances by rate; parameter generation dominates hashing cost
type PoseidonCache struct {
	cache *lru.Cache[int, *Poseidon]
}

// NewPoseidonCache creates a cache holding at most size instances
func NewPoseidonCache(size int) (*PoseidonCache, error) {
	cache, err := lru.New[int, *Poseidon](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create poseidon cache: %w", err)
	}
	return &PoseidonCache{cache: cache}, nil
}

// Get returns the instance for rate, generating it on first use
func (c *PoseidonCache) Get(rate int) (*Poseidon, error) {
	if p, ok := c.cache.Get(rate); ok {
		return p, nil
	}
	p, err := NewPoseidon(rate)
	if err != nil {
		return nil, err
	}
	c.cache.Add(rate, p)
	return p, nil
}
