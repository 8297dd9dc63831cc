package schedule_test

import (
	"fmt"

	"github.com/matzehuels/splitviz/pkg/schedule"
)

func ExampleNewPlan() {
	plan, _ := schedule.NewPlan(150, 2, 4)
	fmt.Println(plan.SegmentLength, plan.TotalFrames)
	// Output: 75 300
}

func ExampleNewRederivedPlan() {
	// 150/4 = 37 frames per feature, stretched by the repeat factor; the two
	// remainder frames are dropped.
	plan, _ := schedule.NewRederivedPlan(150, 2, 4)
	fmt.Println(plan.SegmentLength, plan.TotalFrames)
	// Output: 74 296
}

func ExampleScheduler_At() {
	plan, _ := schedule.NewPlan(10, 1, 2)
	sched, _ := schedule.New(plan, []schedule.Feature{
		{Pane: 1, Label: "Material"},
		{Pane: 3, Label: "Density"},
	}, 2)

	for i := 3; i <= 7; i++ {
		s := sched.At(i)
		fmt.Printf("%d %s %.2f %s\n", i, s.Active.Label, s.Alpha, s.Label)
	}
	// Output:
	// 3 Material 1.00 Material
	// 4 Material 0.50 Material
	// 5 Density 0.00 Material
	// 6 Density 0.50 Density
	// 7 Density 1.00 Density
}
