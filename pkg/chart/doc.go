// Package chart coordinates update passes of a chart instance.
//
// An [Instance] owns the render state of one chart: the last keyed dataset,
// the shared scales, the marks of every component and the transition
// engine. Each call to [Instance.Update] runs one pass:
//
//  1. Key the dataset and reject configuration errors.
//  2. Build one X and one Y scale from the channels of every XY component.
//  3. Let every component produce its marks.
//  4. Join marks against the previous pass, per component.
//  5. Start, supersede or finish transitions.
//  6. Send the resulting draw commands to the [Surface].
//
// Any configuration error aborts the pass before the state is touched, so a
// broken configuration never produces a partial picture. The first pass of
// an instance is applied without animation.
//
// Updates and transition ticks are serialized by the instance. A new update
// that arrives while transitions are running supersedes them: each mark
// continues from where it currently is toward its new target.
package chart
