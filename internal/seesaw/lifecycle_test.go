package seesaw_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/seesaw/internal/seesaw"
)

var _ = Describe("State lifecycle", func() {
	var (
		st        *seesaw.State
		p         seesaw.Params
		mutations []seesaw.Mutation
	)

	BeforeEach(func() {
		var err error
		p = seesaw.DefaultParams()
		st, err = seesaw.New(p)
		Expect(err).NotTo(HaveOccurred())
		mutations = nil
		st.AddObserver(seesaw.ObserverFunc(func(m seesaw.Mutation) {
			mutations = append(mutations, m)
		}))
	})

	settle := func() []seesaw.LandingEvent {
		var landed []seesaw.LandingEvent
		for i := 0; st.Phase() == seesaw.Active && i < 10000; i++ {
			landed = append(landed, st.Step(1.0/60)...)
		}
		return landed
	}

	It("starts idle and flat", func() {
		Expect(st.Phase()).To(Equal(seesaw.Idle))
		Expect(st.RawAngle()).To(BeZero())
		Expect(st.Serialize()).To(BeEmpty())
	})

	When("an item is spawned", func() {
		BeforeEach(func() {
			st.Spawn(p.CenterX+60, 8)
		})

		It("becomes active and reports the spawn", func() {
			Expect(st.Phase()).To(Equal(seesaw.Active))
			Expect(mutations).To(HaveLen(1))
			Expect(mutations[0].Kind).To(Equal(seesaw.MutationSpawn))
			Expect(mutations[0].Snapshot.Bodies).To(HaveLen(1))
			Expect(mutations[0].Snapshot.Bodies[0].Resting).To(BeFalse())
		})

		It("falls straight down and comes to rest", func() {
			landed := settle()
			Expect(st.Phase()).To(Equal(seesaw.Idle))
			Expect(landed).To(HaveLen(1))
			Expect(landed[0].X).To(BeNumerically("~", 60, 1e-9))
			Expect(st.RawAngle()).To(BeNumerically("~", 48, 1e-9))
		})

		It("reports the landing with the post-landing tilt", func() {
			settle()
			last := mutations[len(mutations)-1]
			Expect(last.Kind).To(Equal(seesaw.MutationStep))
			Expect(last.Landed).To(HaveLen(1))
			Expect(last.Snapshot.RawAngle).To(BeNumerically("~", 48, 1e-9))
			Expect(last.Snapshot.VisualAngle).To(BeNumerically("==", p.MaxAngle))
			Expect(last.Snapshot.Phase).To(Equal(seesaw.Idle))
		})
	})

	When("reset while items are in flight", func() {
		BeforeEach(func() {
			st.Deserialize([]seesaw.RestingItem{{X: -40, Weight: 1}, {X: 15, Weight: 6}, {X: 120, Weight: 2}})
			st.Spawn(p.CenterX-10, 3)
			st.Spawn(p.CenterX+10, 4)
			mutations = nil
			st.Reset()
		})

		It("empties both collections without landing anything", func() {
			Expect(st.Serialize()).To(BeEmpty())
			Expect(st.FallingCount()).To(BeZero())
			Expect(st.RawAngle()).To(BeZero())
			Expect(st.Phase()).To(Equal(seesaw.Idle))
			Expect(mutations).To(HaveLen(1))
			Expect(mutations[0].Landed).To(BeEmpty())
		})

		It("stays idle on further steps", func() {
			Expect(st.Step(0.016)).To(BeEmpty())
			Expect(mutations).To(HaveLen(1))
		})
	})

	It("never moves a resting item once it has landed", func() {
		st.Spawn(p.CenterX-70, 9)
		settle()
		first := st.Serialize()[0]

		st.Spawn(p.CenterX+150, 10)
		settle()
		Expect(st.Serialize()[0]).To(Equal(first))
		Expect(st.Serialize()).To(HaveLen(2))
	})
})
